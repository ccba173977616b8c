package profile

import (
	"context"
	"time"

	domain "planner/internal/domain/profile"
)

// Store persists Profile state and password reset tokens.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Profile, error)
	Count(ctx context.Context) (int, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	SaveResetToken(ctx context.Context, token domain.ResetToken) error
	GetResetTokenByToken(ctx context.Context, token string) (domain.ResetToken, error)
	InvalidateResetTokens(ctx context.Context, profileID string) error
	DeleteStaleResetTokens(ctx context.Context, before time.Time) (int64, error)
}

// ListFilter carries filtering parameters for List operations.
// A zero Limit returns every profile.
type ListFilter struct {
	Limit  int
	Offset int
}
