package models

import "time"

// Role is the authorization role of a channel identity, resolved against
// the configured HR identity and the external User Directory.
type Role string

const (
	RoleHR      Role = "hr"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleUnknown Role = "unknown"
)

// FileClassification is the outcome of role-gated attachment
// classification. It is computed, never persisted.
type FileClassification string

const (
	FileCV      FileClassification = "cv"
	FileWBS     FileClassification = "wbs"
	FileUnknown FileClassification = "unknown"
)

// ProjectExperience is one project entry extracted from a CV.
type ProjectExperience struct {
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	Contribution string `json:"contribution,omitempty"`
}

// CandidateProfile is the structured output of the external CV Analyzer.
// One profile per distinct stored file; cached by file path.
type CandidateProfile struct {
	Name            string              `json:"name"`
	Email           string              `json:"email,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	Role            string              `json:"role,omitempty"`
	ExperienceYears int                 `json:"experience_years,omitempty"`
	ExperienceLevel string              `json:"experience_level,omitempty"`
	Skills          []string            `json:"skills,omitempty"`
	Strengths       []string            `json:"strengths,omitempty"`
	Projects        []ProjectExperience `json:"projects,omitempty"`
}

// PendingRegistration is a candidate submission awaiting an HR decision.
// It is created exactly once per accepted CV, read and deleted exactly once
// when HR decides, and never mutated in between.
type PendingRegistration struct {
	RegistrationID     string           `json:"registration_id"`
	Profile            CandidateProfile `json:"profile"`
	CVFilePath         string           `json:"cv_file_path"`
	CandidateChannelID string           `json:"candidate_channel_id"`
	CreatedAt          time.Time        `json:"created_at"`
}

// UserRecord is a user as stored by the external User Directory.
type UserRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role,omitempty"`
	ChannelID string `json:"zalo_user_id,omitempty"`
}

// NewUser is the account-creation request sent to the User Directory when
// HR approves a registration.
type NewUser struct {
	Name        string            `json:"name"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	CVPath      string            `json:"cv"`
	ChannelID   string            `json:"zalo_user_id"`
	Description string            `json:"description,omitempty"`
	Skills      []string          `json:"skills,omitempty"`
	Role        Role              `json:"role"`
	Profile     *CandidateProfile `json:"cv_data,omitempty"`
}
