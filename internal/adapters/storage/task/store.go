package task

import (
	"context"

	domain "planner/internal/domain/task"
)

// Store persists checklist tasks. Tasks are only created in bulk by seeding;
// afterwards the completed flag is the only mutable column.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	InsertBatch(ctx context.Context, tasks []domain.Task) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	SummaryByOwner(ctx context.Context) (map[string]domain.Summary, error)
}
