// Package audit describes the security trail kept for each profile.
package audit

import (
	"errors"
	"time"
)

// Category groups audit events.
type Category string

const (
	CategoryAccount  Category = "account"
	CategorySecurity Category = "security"
	CategoryAdmin    Category = "admin"
)

// Action names the thing that happened.
type Action string

const (
	ActionProfileCreated  Action = "profile_created"
	ActionLoginLocked     Action = "login_locked"
	ActionPasswordReset   Action = "password_reset"
	ActionPasswordChanged Action = "password_changed"
	ActionAdminGranted    Action = "admin_granted"
	ActionAdminRevoked    Action = "admin_revoked"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// DefaultListLimit caps audit listings when no limit is given.
const DefaultListLimit = 100

var (
	ErrEmptyID     = errors.New("audit event id is required")
	ErrEmptyAction = errors.New("audit action is required")
)

// Event is a single audit record. ActorID is who acted (empty for the operator
// CLI); ProfileID is the profile the event concerns.
type Event struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	Severity    Severity  `json:"severity"`
	ActorID     string    `json:"actor_id"`
	ProfileID   string    `json:"profile_id"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
}

// CategoryFor maps an action to its category.
func CategoryFor(a Action) Category {
	switch a {
	case ActionLoginLocked, ActionPasswordReset, ActionPasswordChanged:
		return CategorySecurity
	case ActionAdminGranted, ActionAdminRevoked:
		return CategoryAdmin
	default:
		return CategoryAccount
	}
}

// SeverityFor maps an action to how loudly it should be reported.
func SeverityFor(a Action) Severity {
	switch a {
	case ActionLoginLocked:
		return SeverityWarning
	case ActionAdminGranted, ActionAdminRevoked:
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Action == "" {
		return ErrEmptyAction
	}
	return nil
}
