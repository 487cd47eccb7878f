// Package approval drives the registration workflow:
//
//	received -> pending_review -> {approved | declined}
//
// A submission creates a pending registration and notifies both parties;
// an HR decision consumes it atomically, so every registration id reaches
// exactly one terminal state exactly once.
package approval

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
	"zalo-hr-gateway/internal/notify"
	"zalo-hr-gateway/internal/registration"
)

// Notifier is the send-text primitive; delivery failures never roll back a
// committed transition.
type Notifier interface {
	Send(ctx context.Context, channelID, text string) bool
}

// AccountDirectory creates the candidate's account on approval.
type AccountDirectory interface {
	CreateUser(ctx context.Context, user models.NewUser) (*models.UserRecord, error)
}

type Machine struct {
	store       registration.Store
	directory   AccountDirectory
	notifier    Notifier
	hrChannelID string
	logger      *slog.Logger
	newID       func() string
	now         func() time.Time
}

func NewMachine(store registration.Store, directory AccountDirectory, notifier Notifier, hrChannelID string, logger *slog.Logger) *Machine {
	return &Machine{
		store:       store,
		directory:   directory,
		notifier:    notifier,
		hrChannelID: hrChannelID,
		logger:      logger,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Submit transitions received -> pending_review: it stores the extracted
// profile under a fresh registration id, confirms receipt to the candidate
// and asks HR to decide.
func (m *Machine) Submit(ctx context.Context, profile models.CandidateProfile, cvPath, candidateChannelID string) models.PendingRegistration {
	reg := models.PendingRegistration{
		RegistrationID:     m.newID(),
		Profile:            profile,
		CVFilePath:         cvPath,
		CandidateChannelID: candidateChannelID,
		CreatedAt:          m.now(),
	}
	m.store.Put(reg)
	m.logger.Info("Registration pending HR approval",
		"registration_id", reg.RegistrationID,
		"candidate", profile.Name,
	)

	m.notifier.Send(ctx, candidateChannelID, notify.PendingReview(profile.Name))
	m.notifier.Send(ctx, m.hrChannelID, notify.HRReviewRequest(reg))
	return reg
}

// Decide executes an HR decision. An unknown id yields a not-found reply
// and no state change. APPROVE creates the account; a validation failure
// (duplicate identity) restores the registration so HR can correct and
// resend. DECLINE removes the registration and informs the candidate.
func (m *Machine) Decide(ctx context.Context, verb Verb, registrationID string) {
	reg, ok := m.store.Take(registrationID)
	if !ok {
		m.logger.Warn("Decision for unknown registration", "verb", verb, "registration_id", registrationID)
		m.notifier.Send(ctx, m.hrChannelID, notify.HRNotFound(registrationID))
		return
	}

	switch verb {
	case VerbApprove:
		m.approve(ctx, reg)
	case VerbDecline:
		m.decline(ctx, reg)
	}
}

func (m *Machine) approve(ctx context.Context, reg models.PendingRegistration) {
	profile := reg.Profile
	record, err := m.directory.CreateUser(ctx, models.NewUser{
		Name:      profile.Name,
		Email:     profile.Email,
		Phone:     profile.Phone,
		CVPath:    reg.CVFilePath,
		ChannelID: reg.CandidateChannelID,
		Skills:    profile.Skills,
		Role:      models.RoleStaff,
		Profile:   &profile,
	})
	if err != nil {
		if faults.IsValidation(err) {
			// Recoverable: keep the registration so the operator can
			// correct the conflicting data and resend APPROVE.
			m.store.Restore(reg)
			m.logger.Warn("Account creation rejected, registration retained",
				"registration_id", reg.RegistrationID, "error", err)
			m.notifier.Send(ctx, m.hrChannelID, notify.HRCreateFailed(reg.RegistrationID, err.Error()))
			return
		}
		m.store.Restore(reg)
		m.logger.Error("Account creation failed",
			"registration_id", reg.RegistrationID, "error", err)
		m.notifier.Send(ctx, m.hrChannelID, notify.HRCreateFailed(reg.RegistrationID, err.Error()))
		return
	}

	m.logger.Info("Registration approved, account created",
		"registration_id", reg.RegistrationID, "user_id", record.ID)
	m.notifier.Send(ctx, reg.CandidateChannelID, notify.ApprovalNotice(*record))
	m.notifier.Send(ctx, m.hrChannelID, notify.HRApproveConfirmation(*record))
}

func (m *Machine) decline(ctx context.Context, reg models.PendingRegistration) {
	m.logger.Info("Registration declined", "registration_id", reg.RegistrationID)
	m.notifier.Send(ctx, reg.CandidateChannelID, notify.DeclineNotice(reg.Profile.Name))
	m.notifier.Send(ctx, m.hrChannelID, notify.HRDeclineConfirmation(reg.Profile.Name))
}
