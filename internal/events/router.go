// Package events routes validated webhook events to the workflow that
// handles them. The router owns the per-event decision tree; it never
// returns an error, because by the time an event reaches it the webhook has
// already been acknowledged. Failures end in a logged apology to the
// sender, not in a retry.
package events

import (
	"context"
	"log/slog"
	"strings"

	"zalo-hr-gateway/internal/approval"
	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
	"zalo-hr-gateway/internal/notify"
)

// Outcome names what the router did with an event, for worker logs.
type Outcome string

const (
	OutcomeWelcomed     Outcome = "welcomed"
	OutcomeInstructed   Outcome = "instructed"
	OutcomeDecided      Outcome = "decided"
	OutcomeChatted      Outcome = "chatted"
	OutcomeCVSubmitted  Outcome = "cv_submitted"
	OutcomeWBSProcessed Outcome = "wbs_processed"
	OutcomeRejected     Outcome = "rejected"
	OutcomeFailed       Outcome = "failed"
	OutcomeIgnored      Outcome = "ignored"
)

// registrationKeywords trigger the CV-submission instructions. Matching is
// case-insensitive substring over the raw text, so both accented and plain
// spellings work.
var registrationKeywords = []string{"đăng ký", "dang ky", "register"}

// RoleResolver maps a channel id to its authorization role.
type RoleResolver interface {
	Resolve(ctx context.Context, channelID string) models.Role
}

// FileClassifier decides what an upload means for the sender's role.
type FileClassifier interface {
	Classify(filename string, role models.Role) models.FileClassification
}

// Ingestor runs the download-store-process pipeline for classified files.
type Ingestor interface {
	IngestCV(ctx context.Context, fileURL, senderID, filename string) (*models.CandidateProfile, string, error)
	IngestWBS(ctx context.Context, fileURL, senderID, filename string) (string, error)
}

// Approver is the registration workflow the router feeds.
type Approver interface {
	Submit(ctx context.Context, profile models.CandidateProfile, cvPath, candidateChannelID string) models.PendingRegistration
	Decide(ctx context.Context, verb approval.Verb, registrationID string)
}

// Chatter answers free-text queries that match no workflow.
type Chatter interface {
	Chat(ctx context.Context, userID, query string) (string, error)
}

// Notifier sends a text reply to a channel id.
type Notifier interface {
	Send(ctx context.Context, channelID, text string) bool
}

type Router struct {
	roles      RoleResolver
	classifier FileClassifier
	ingestor   Ingestor
	approver   Approver
	chatter    Chatter
	notifier   Notifier
	logger     *slog.Logger
}

func NewRouter(roles RoleResolver, classifier FileClassifier, ingestor Ingestor, approver Approver, chatter Chatter, notifier Notifier, logger *slog.Logger) *Router {
	return &Router{
		roles:      roles,
		classifier: classifier,
		ingestor:   ingestor,
		approver:   approver,
		chatter:    chatter,
		notifier:   notifier,
		logger:     logger,
	}
}

// Route dispatches one event. Unrecognized event names are ignored without
// a reply.
func (r *Router) Route(ctx context.Context, event models.WebhookEvent) Outcome {
	switch event.EventName {
	case models.EventUserSendText:
		return r.routeText(ctx, event)
	case models.EventUserSendFile:
		return r.routeFile(ctx, event)
	case models.EventUserSendImage:
		r.notifier.Send(ctx, event.SenderID(), notify.UnsupportedImage())
		return OutcomeRejected
	case models.EventFollow:
		r.notifier.Send(ctx, event.SenderID(), notify.WelcomeMessage())
		return OutcomeWelcomed
	default:
		r.logger.Debug("Event ignored", "event_name", event.EventName)
		return OutcomeIgnored
	}
}

// routeText checks, in order: registration keywords, HR decision commands,
// and finally the chatbot fallback. HR free text that is not a well-formed
// APPROVE/DECLINE command falls through to the chatbot like anyone else's.
func (r *Router) routeText(ctx context.Context, event models.WebhookEvent) Outcome {
	senderID := event.SenderID()
	var text string
	if event.Message != nil {
		text = event.Message.Text
	}

	if containsKeyword(text) {
		r.notifier.Send(ctx, senderID, notify.RegistrationInstructions())
		return OutcomeInstructed
	}

	role := r.roles.Resolve(ctx, senderID)
	if role == models.RoleHR {
		if verb, registrationID, ok := approval.ParseCommand(text); ok {
			r.approver.Decide(ctx, verb, registrationID)
			return OutcomeDecided
		}
	}

	reply, err := r.chatter.Chat(ctx, senderID, text)
	if err != nil {
		r.logger.Error("Chatbot query failed", "sender_id", senderID, "error", err)
		r.notifier.Send(ctx, senderID, notify.SystemBusy())
		return OutcomeFailed
	}
	r.notifier.Send(ctx, senderID, reply)
	return OutcomeChatted
}

// routeFile classifies the first attachment against the sender's role and
// runs the matching pipeline. Unauthorized or unrecognized uploads are
// refused before any download happens.
func (r *Router) routeFile(ctx context.Context, event models.WebhookEvent) Outcome {
	senderID := event.SenderID()
	attachment, ok := firstAttachment(event)
	if !ok {
		r.logger.Warn("File event without attachment", "sender_id", senderID)
		return OutcomeIgnored
	}
	filename := attachment.Payload.Name
	fileURL := attachment.Payload.URL

	role := r.roles.Resolve(ctx, senderID)
	classification := r.classifier.Classify(filename, role)
	r.logger.Info("Attachment classified",
		"sender_id", senderID,
		"filename", filename,
		"role", role,
		"classification", classification,
	)

	switch classification {
	case models.FileCV:
		return r.handleCV(ctx, senderID, fileURL, filename)
	case models.FileWBS:
		return r.handleWBS(ctx, senderID, fileURL, filename)
	default:
		r.notifier.Send(ctx, senderID, notify.UnrecognizedFile(filename))
		return OutcomeRejected
	}
}

func (r *Router) handleCV(ctx context.Context, senderID, fileURL, filename string) Outcome {
	profile, cvPath, err := r.ingestor.IngestCV(ctx, fileURL, senderID, filename)
	if err != nil {
		if faults.IsUnsupportedInput(err) {
			r.notifier.Send(ctx, senderID, notify.UnsupportedDocument(filename))
			return OutcomeRejected
		}
		r.logger.Error("CV ingestion failed", "sender_id", senderID, "filename", filename, "error", err)
		r.notifier.Send(ctx, senderID, notify.Apology())
		return OutcomeFailed
	}

	r.approver.Submit(ctx, *profile, cvPath, senderID)
	return OutcomeCVSubmitted
}

func (r *Router) handleWBS(ctx context.Context, senderID, fileURL, filename string) Outcome {
	summary, err := r.ingestor.IngestWBS(ctx, fileURL, senderID, filename)
	if err != nil {
		r.logger.Error("WBS ingestion failed", "sender_id", senderID, "filename", filename, "error", err)
		r.notifier.Send(ctx, senderID, notify.Apology())
		return OutcomeFailed
	}
	r.notifier.Send(ctx, senderID, notify.WBSAccepted(filename, summary))
	return OutcomeWBSProcessed
}

func containsKeyword(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, keyword := range registrationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func firstAttachment(event models.WebhookEvent) (models.Attachment, bool) {
	if event.Message == nil || len(event.Message.Attachments) == 0 {
		return models.Attachment{}, false
	}
	att := event.Message.Attachments[0]
	if att.Payload.URL == "" {
		return models.Attachment{}, false
	}
	return att, true
}
