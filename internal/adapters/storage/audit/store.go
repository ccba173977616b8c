// Package audit persists the security trail: lockouts, password changes and admin grants.
package audit

import (
	"context"

	domain "planner/internal/domain/audit"
)

// Store appends and lists audit events. Events are never updated or deleted.
type Store interface {
	Save(ctx context.Context, event domain.Event) error
	// List returns matching events, newest first, at most filter.Limit of them
	// (domain.DefaultListLimit when zero).
	List(ctx context.Context, filter Filter) ([]domain.Event, error)
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	ProfileID string
	Category  domain.Category
	Limit     int
}

var _ Store = (*SQLiteStore)(nil)
