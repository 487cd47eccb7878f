// Package webhooks is the HTTP boundary. The webhook endpoint validates,
// deduplicates and enqueues; every well-formed HTTP request is answered
// 200 so the platform never retries an event we have already taken
// responsibility for. The response body says what actually happened.
package webhooks

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"zalo-hr-gateway/internal/contextkeys"
	"zalo-hr-gateway/internal/dedup"
	"zalo-hr-gateway/internal/models"
)

// Registrations is the read-only slice of the registration store the HTTP
// surface exposes.
type Registrations interface {
	List() []models.PendingRegistration
}

// Handler contains dependencies for the webhook HTTP handlers.
type Handler struct {
	Logger        *slog.Logger
	JobQueue      chan<- models.Job
	Dedup         *dedup.Store
	Registrations Registrations
	validate      *validator.Validate
}

// NewHandler creates a new instance of the webhook Handler.
func NewHandler(logger *slog.Logger, jobQueue chan<- models.Job, dedupStore *dedup.Store, registrations Registrations) *Handler {
	return &Handler{
		Logger:        logger,
		JobQueue:      jobQueue,
		Dedup:         dedupStore,
		Registrations: registrations,
		validate:      validator.New(),
	}
}

// webhookResponse is the acknowledgment body. Status is one of ok,
// duplicate, dropped or error; EventID is the derived dedup key when one
// could be computed.
type webhookResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// HandleWebhook acknowledges every request with 200. Malformed payloads
// are reported in the body only: a non-200 would make the platform redeliver
// a payload that will never become valid.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	bodyBytes, ok := r.Context().Value(contextkeys.RequestBodyKey).([]byte)
	if !ok {
		h.Logger.Error("Could not retrieve request body from context")
		writeJSON(w, http.StatusOK, webhookResponse{Status: "error", Detail: "missing body"})
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(bodyBytes, &event); err != nil {
		h.Logger.Warn("Webhook payload is not valid JSON", "error", err, "body", string(bodyBytes))
		writeJSON(w, http.StatusOK, webhookResponse{Status: "error", Detail: "invalid json"})
		return
	}

	if err := h.validateEvent(event); err != nil {
		h.Logger.Warn("Webhook payload failed validation", "error", err, "event_name", event.EventName)
		writeJSON(w, http.StatusOK, webhookResponse{Status: "error", Detail: err.Error()})
		return
	}

	key := dedup.EventKey(event)
	if !h.Dedup.SeenOrMark(key) {
		h.Logger.Warn("Duplicate webhook event detected and ignored", "event_id", key)
		writeJSON(w, http.StatusOK, webhookResponse{Status: "duplicate", EventID: key})
		return
	}

	job := models.Job{Key: key, Event: event}
	select {
	case h.JobQueue <- job:
		h.Logger.Info("Webhook event queued for processing", "event_id", key, "event_name", event.EventName)
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", EventID: key})
	default:
		// The event is already marked as seen, so shedding it here is a
		// deliberate loss, not a deferral.
		h.Logger.Error("Job queue is full, shedding webhook event", "event_id", key)
		writeJSON(w, http.StatusOK, webhookResponse{Status: "dropped", EventID: key})
	}
}

// HandleListRegistrations exposes the pending queue for HR tooling.
func (h *Handler) HandleListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs := h.Registrations.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(regs),
		"registrations": regs,
	})
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// validateEvent applies the struct tags plus the per-event shape rules the
// tags cannot express: message events need a sender, follow events need a
// follower, file events need a downloadable attachment.
func (h *Handler) validateEvent(event models.WebhookEvent) error {
	if err := h.validate.Struct(event); err != nil {
		return err
	}

	switch event.EventName {
	case models.EventUserSendText, models.EventUserSendFile, models.EventUserSendImage:
		if event.Sender == nil || event.Sender.ID == "" {
			return fmt.Errorf("%s: missing sender id", event.EventName)
		}
		if event.EventName == models.EventUserSendFile {
			if event.Message == nil || len(event.Message.Attachments) == 0 {
				return fmt.Errorf("%s: missing attachments", event.EventName)
			}
		}
	case models.EventFollow:
		if event.Follower == nil || event.Follower.ID == "" {
			return fmt.Errorf("%s: missing follower id", event.EventName)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
