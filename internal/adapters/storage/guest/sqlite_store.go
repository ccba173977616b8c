package guest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planner/internal/adapters/storage"
	domain "planner/internal/domain/guest"
)

const guestColumns = "id, owner_id, first_name, last_name, email, phone, group_label, rsvp_status, plus_one, table_number, dietary_notes, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new GuestStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Guest by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Guest, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+guestColumns+" FROM guest WHERE id = ?", id)
	entity, err := scanGuest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Guest{}, fmt.Errorf("guest %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// ListByOwner returns the owner's guests oldest first.
func (s *SQLiteStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+guestColumns+" FROM guest WHERE owner_id = ? ORDER BY created_at ASC, rowid ASC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Guest{}
	for rows.Next() {
		entity, err := scanGuest(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Guest to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
// INVARIANT: owner_id and created_at never change after insert
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Guest) error {
	var tableNumber any
	if entity.TableNumber != nil {
		tableNumber = *entity.TableNumber
	}
	status := entity.RSVPStatus
	if status == "" {
		status = domain.RSVPPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO guest (`+guestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   first_name=excluded.first_name,
		   last_name=excluded.last_name,
		   email=excluded.email,
		   phone=excluded.phone,
		   group_label=excluded.group_label,
		   rsvp_status=excluded.rsvp_status,
		   plus_one=excluded.plus_one,
		   table_number=excluded.table_number,
		   dietary_notes=excluded.dietary_notes`,
		entity.ID,
		entity.OwnerID,
		entity.FirstName,
		entity.LastName,
		entity.Email,
		entity.Phone,
		entity.GroupLabel,
		string(status),
		entity.PlusOne,
		tableNumber,
		entity.DietaryNotes,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Delete removes a Guest.
// POST: returns an error wrapping storage.ErrNotFound when no row matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM guest WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("guest %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func scanGuest(scan func(dest ...any) error) (domain.Guest, error) {
	var g domain.Guest
	var status, createdAt string
	var tableNumber sql.NullInt64
	err := scan(
		&g.ID,
		&g.OwnerID,
		&g.FirstName,
		&g.LastName,
		&g.Email,
		&g.Phone,
		&g.GroupLabel,
		&status,
		&g.PlusOne,
		&tableNumber,
		&g.DietaryNotes,
		&createdAt,
	)
	if err != nil {
		return domain.Guest{}, err
	}
	g.RSVPStatus = domain.RSVPStatus(status)
	if tableNumber.Valid {
		n := int(tableNumber.Int64)
		g.TableNumber = &n
	}
	g.CreatedAt, _ = storage.ParseTime(createdAt)
	return g, nil
}
