package audit

import (
	"context"
	"database/sql"

	"planner/internal/adapters/storage"
	domain "planner/internal/domain/audit"
)

const eventColumns = "id, at, category, action, severity, actor_id, profile_id, description, ip_address"

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event is valid
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, storage.FormatTime(event.At), string(event.Category), string(event.Action),
		string(event.Severity), event.ActorID, event.ProfileID, event.Description, event.IPAddress)
	return err
}

// List returns audit events with optional filtering.
// POST: Returns events ordered by time desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM audit_event WHERE 1=1`
	args := []any{}

	if filter.ProfileID != "" {
		query += " AND profile_id = ?"
		args = append(args, filter.ProfileID)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	query += " ORDER BY at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// scanEvents scans multiple rows into a slice of Events.
func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		var at string
		if err := rows.Scan(&e.ID, &at, &e.Category, &e.Action, &e.Severity, &e.ActorID, &e.ProfileID, &e.Description, &e.IPAddress); err != nil {
			return nil, err
		}
		parsed, err := storage.ParseTime(at)
		if err != nil {
			return nil, err
		}
		e.At = parsed
		events = append(events, e)
	}
	return events, rows.Err()
}
