package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"planner/internal/domain/task"
)

// TaskStoreForSeed defines the store interface needed by SeedDefaultTasks.
type TaskStoreForSeed interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	InsertBatch(ctx context.Context, tasks []task.Task) error
}

// SeedTasksDeps holds dependencies for SeedDefaultTasks.
type SeedTasksDeps struct {
	TaskStore  TaskStoreForSeed
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSeedDefaultTasks gives a profile the default 60-task checklist.
// PRE: profileID refers to an existing profile
// POST: Profile owns the default checklist; returns the number of tasks inserted
// INVARIANT: A profile that already owns tasks is left untouched
func ExecuteSeedDefaultTasks(ctx context.Context, deps SeedTasksDeps, profileID string) (int, error) {
	if profileID == "" {
		return 0, errors.New("profile ID is required")
	}

	existing, err := deps.TaskStore.CountByOwner(ctx, profileID)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		slog.Debug("seed_event", "event", "seed_skipped", "profile_id", profileID, "existing", existing)
		return 0, nil
	}

	tasks := task.SeedTasks(profileID, deps.Now(), deps.GenerateID)
	if err := deps.TaskStore.InsertBatch(ctx, tasks); err != nil {
		return 0, err
	}

	slog.Info("seed_event", "event", "default_tasks_seeded", "profile_id", profileID, "count", len(tasks))
	return len(tasks), nil
}
