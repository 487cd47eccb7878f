package dedup

import (
	"fmt"

	"zalo-hr-gateway/internal/models"
)

// EventKey derives the dedup identity of an event. The message id is
// preferred for uniqueness; events without one (follow, some system events)
// fall back to the delivery timestamp. Two deliveries of the same logical
// event always produce the same key.
func EventKey(event models.WebhookEvent) string {
	if event.Message != nil && event.Message.MsgID != "" {
		return fmt.Sprintf("%s_%s_%s", event.EventName, event.Message.MsgID, event.SenderID())
	}
	return fmt.Sprintf("%s_%s_%s", event.EventName, event.Timestamp, event.SenderID())
}
