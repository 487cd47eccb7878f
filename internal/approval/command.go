package approval

import "strings"

// Verb is an HR decision verb.
type Verb string

const (
	VerbApprove Verb = "APPROVE"
	VerbDecline Verb = "DECLINE"
)

// ParseCommand recognizes the HR control protocol: `APPROVE <id>` or
// `DECLINE <id>`. The verb is case-insensitive; the id is the remainder of
// the line, trimmed, and case-sensitive. ok is false for anything else.
func ParseCommand(text string) (verb Verb, registrationID string, ok bool) {
	trimmed := strings.TrimSpace(text)
	word, rest, found := strings.Cut(trimmed, " ")
	if !found {
		return "", "", false
	}

	registrationID = strings.TrimSpace(rest)
	if registrationID == "" {
		return "", "", false
	}

	switch strings.ToUpper(word) {
	case string(VerbApprove):
		return VerbApprove, registrationID, true
	case string(VerbDecline):
		return VerbDecline, registrationID, true
	default:
		return "", "", false
	}
}
