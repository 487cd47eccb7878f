package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"zalo-hr-gateway/internal/contextkeys"
)

// CaptureBody is a Chi middleware that reads the request body once and
// stashes the bytes in the request context. The handler decodes from the
// context copy, so the body can also be logged verbatim when a payload
// fails validation.
func CaptureBody(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("Failed to read request body", "error", err)
				http.Error(w, "Cannot read request body", http.StatusInternalServerError)
				return
			}
			r.Body.Close()

			// Restore the body so the next handler can read it.
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			logger.Debug("Webhook request received", "bytes", len(bodyBytes), "remote", r.RemoteAddr)

			ctx := context.WithValue(r.Context(), contextkeys.RequestBodyKey, bodyBytes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
