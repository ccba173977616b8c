package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planner/internal/adapters/storage"
	domain "planner/internal/domain/task"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TaskStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Task by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, owner_id, name, phase, completed, created_at FROM task WHERE id = ?", id)
	entity, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// ListByOwner returns the owner's tasks in creation order.
// INVARIANT: ties on created_at fall back to insertion order
func (s *SQLiteStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, phase, completed, created_at FROM task WHERE owner_id = ? ORDER BY created_at ASC, rowid ASC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Task{}
	for rows.Next() {
		entity, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// CountByOwner returns how many tasks the owner has.
func (s *SQLiteStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM task WHERE owner_id = ?", ownerID).Scan(&n)
	return n, err
}

// InsertBatch inserts tasks in a single transaction, in slice order.
// PRE: every task has been validated
// POST: either all tasks are stored or none are
func (s *SQLiteStore) InsertBatch(ctx context.Context, tasks []domain.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO task (id, owner_id, name, phase, completed, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.OwnerID, t.Name, t.Phase, storage.BoolToInt(t.Completed), storage.FormatTime(t.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert task %q: %w", t.Name, err)
		}
	}
	return tx.Commit()
}

// SetCompleted updates the completed flag of a single task.
// POST: returns an error wrapping storage.ErrNotFound when no row matched
func (s *SQLiteStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE task SET completed = ? WHERE id = ?", storage.BoolToInt(completed), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// SummaryByOwner returns total/completed counts and progress for every owner with tasks.
func (s *SQLiteStore) SummaryByOwner(ctx context.Context) (map[string]domain.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT owner_id, COUNT(*), COALESCE(SUM(completed), 0) FROM task GROUP BY owner_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Summary)
	for rows.Next() {
		var owner string
		var total, completed int
		if err := rows.Scan(&owner, &total, &completed); err != nil {
			return nil, err
		}
		out[owner] = domain.Summarize(completed, total)
	}
	return out, rows.Err()
}

func scanTask(scan func(dest ...any) error) (domain.Task, error) {
	var entity domain.Task
	var completed int
	var createdAt string
	if err := scan(&entity.ID, &entity.OwnerID, &entity.Name, &entity.Phase, &completed, &createdAt); err != nil {
		return domain.Task{}, err
	}
	entity.Completed = completed == 1
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
