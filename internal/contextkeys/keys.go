package contextkeys

// CtxKey is a custom type for context keys to avoid collisions.
type CtxKey string

// RequestBodyKey is the key under which the capture middleware stores the
// raw webhook request body.
const RequestBodyKey CtxKey = "requestBody"
