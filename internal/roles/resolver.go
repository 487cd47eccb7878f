// Package roles resolves a Zalo channel identity to its authorization
// role. The configured HR identity short-circuits the lookup; everyone
// else is resolved through the external User Directory, which owns role
// consistency, so no caching happens here.
package roles

import (
	"context"
	"log/slog"

	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
)

// DirectoryLookup is the slice of the User Directory the resolver needs.
type DirectoryLookup interface {
	GetByChannelID(ctx context.Context, channelID string) (*models.UserRecord, error)
}

type Resolver struct {
	hrChannelID string
	directory   DirectoryLookup
	logger      *slog.Logger
}

func NewResolver(hrChannelID string, directory DirectoryLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		hrChannelID: hrChannelID,
		directory:   directory,
		logger:      logger,
	}
}

// Resolve maps channelID to a role. Unregistered identities are unknown;
// registered users without a stored role default to staff. A directory
// outage also resolves to unknown so the caller can degrade to the least
// privileged path.
func (r *Resolver) Resolve(ctx context.Context, channelID string) models.Role {
	if channelID == r.hrChannelID {
		return models.RoleHR
	}

	record, err := r.directory.GetByChannelID(ctx, channelID)
	if err != nil {
		if !faults.IsNotFound(err) {
			r.logger.Error("User directory lookup failed", "channel_id", channelID, "error", err)
		}
		return models.RoleUnknown
	}
	if record.Role == "" {
		return models.RoleStaff
	}
	return record.Role
}
