package models

// Event names delivered by the Zalo OA webhook. Anything else is ignored.
const (
	EventUserSendText  = "user_send_text"
	EventUserSendFile  = "user_send_file"
	EventUserSendImage = "user_send_image"
	EventFollow        = "follow"
)

// Party identifies a chat participant by its Zalo channel id.
type Party struct {
	ID string `json:"id" validate:"required"`
}

// AttachmentPayload carries the downloadable part of an attachment.
type AttachmentPayload struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Attachment is a single entry of message.attachments.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// Message is the message body of a text or file event.
type Message struct {
	Text        string       `json:"text"`
	MsgID       string       `json:"msg_id"`
	Attachments []Attachment `json:"attachments"`
}

// WebhookEvent is the typed form of an inbound Zalo webhook payload,
// discriminated by EventName. It is validated at the boundary before any
// handler runs and never persisted beyond the dedup window.
type WebhookEvent struct {
	EventName string   `json:"event_name" validate:"required"`
	Sender    *Party   `json:"sender,omitempty"`
	Follower  *Party   `json:"follower,omitempty"`
	Message   *Message `json:"message,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// SenderID returns the channel id of the originating participant: sender.id
// for message events, follower.id for follow events. Empty when neither is
// present.
func (e WebhookEvent) SenderID() string {
	if e.Sender != nil && e.Sender.ID != "" {
		return e.Sender.ID
	}
	if e.Follower != nil {
		return e.Follower.ID
	}
	return ""
}

// Job is the unit of work handed from the webhook handler to the worker
// pool: the decoded event plus its derived dedup key.
type Job struct {
	Key   string
	Event WebhookEvent
}
