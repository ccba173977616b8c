package guest

import (
	"context"

	domain "planner/internal/domain/guest"
)

// Store persists Guest state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Guest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Guest, error)
	Save(ctx context.Context, value domain.Guest) error
	Delete(ctx context.Context, id string) error
}
