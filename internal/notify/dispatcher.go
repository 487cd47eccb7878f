// Package notify is the single send-text primitive every workflow step
// uses to reach a chat participant. Message bodies are data (templates.go),
// never control logic; the caller only observes delivery success, which is
// logged but never rolls back a committed state transition.
package notify

import (
	"context"
	"log/slog"
)

// Sender is the messaging-platform primitive the dispatcher wraps.
type Sender interface {
	SendText(ctx context.Context, userID, text string) error
}

type Dispatcher struct {
	sender Sender
	logger *slog.Logger
}

func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Send delivers text to a channel id, reporting success. Failures are
// logged and swallowed; delivery is best-effort.
func (d *Dispatcher) Send(ctx context.Context, channelID, text string) bool {
	if channelID == "" {
		d.logger.Warn("Notification skipped, no recipient channel id")
		return false
	}
	if err := d.sender.SendText(ctx, channelID, text); err != nil {
		d.logger.Error("Notification delivery failed", "channel_id", channelID, "error", err)
		return false
	}
	return true
}
