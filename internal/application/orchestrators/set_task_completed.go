package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"planner/internal/adapters/changefeed"
	"planner/internal/domain/access"
	"planner/internal/domain/task"
)

// TaskStoreForUpdate defines the store interface needed by SetTaskCompleted.
type TaskStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (task.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// SetTaskCompletedInput carries input for SetTaskCompleted.
type SetTaskCompletedInput struct {
	Caller    access.Caller
	TaskID    string
	Completed bool
}

// SetTaskCompletedDeps holds dependencies for SetTaskCompleted.
type SetTaskCompletedDeps struct {
	TaskStore TaskStoreForUpdate
	Changes   changefeed.Publisher
	Now       func() time.Time
}

// ExecuteSetTaskCompleted toggles a task's completed flag. Nothing else about a task is mutable.
// PRE: Caller is authenticated
// POST: Task updated and one change published
// INVARIANT: Only the owner may write; admins are read-only on other profiles
func ExecuteSetTaskCompleted(ctx context.Context, input SetTaskCompletedInput, deps SetTaskCompletedDeps) (task.Task, error) {
	t, err := deps.TaskStore.GetByID(ctx, input.TaskID)
	if err != nil {
		return task.Task{}, err
	}
	if err := access.RequireWrite(input.Caller, t.OwnerID); err != nil {
		slog.Warn("access_event", "event", "write_denied", "collection", changefeed.CollectionTasks, "row_id", t.ID, "caller", input.Caller.ProfileID)
		return task.Task{}, err
	}

	if err := deps.TaskStore.SetCompleted(ctx, t.ID, input.Completed); err != nil {
		return task.Task{}, err
	}
	t.Completed = input.Completed

	publishChange(deps.Changes, changefeed.CollectionTasks, changefeed.OpUpdate, t.OwnerID, t.ID, deps.Now())
	return t, nil
}
