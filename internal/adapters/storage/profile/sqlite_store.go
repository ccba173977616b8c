package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"planner/internal/adapters/storage"
	domain "planner/internal/domain/profile"
)

const profileColumns = "id, email, couple_name, wedding_date, password_hash, is_admin, created_at, failed_logins, locked_until"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProfileStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE id = ?", id)
	entity, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByEmail retrieves a Profile by normalized email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE email = ?", domain.NormalizeEmail(email))
	entity, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile with email: %w", storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
// INVARIANT: is_admin is written on insert only; updates go through SetAdmin
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
	fields := strings.Split(profileColumns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	updates := []string{
		"email=excluded.email",
		"couple_name=excluded.couple_name",
		"wedding_date=excluded.wedding_date",
		"password_hash=excluded.password_hash",
		"failed_logins=excluded.failed_logins",
		"locked_until=excluded.locked_until",
	}

	query := fmt.Sprintf(
		"INSERT INTO profile (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		profileColumns,
		placeholders,
		strings.Join(updates, ", "),
	)

	var weddingDate any
	if entity.WeddingDate != nil {
		weddingDate = entity.WeddingDateString()
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		domain.NormalizeEmail(entity.Email),
		entity.CoupleName,
		weddingDate,
		entity.PasswordHash,
		storage.BoolToInt(entity.IsAdmin),
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.NullableTime(entity.LockedUntil),
	)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("profile %s: %w", domain.NormalizeEmail(entity.Email), domain.ErrEmailTaken)
	}
	return err
}

// Delete removes a Profile and, through cascading keys, everything it owns.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profile WHERE id = ?", id)
	return err
}

// List retrieves Profiles newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Profile, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT " + profileColumns + " FROM profile ORDER BY created_at DESC, rowid DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Profile
	for rows.Next() {
		entity, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of registered profiles.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profile").Scan(&n)
	return n, err
}

// SetAdmin grants or revokes administrator rights.
// PRE: id is non-empty
// POST: is_admin is updated, or an error wrapping storage.ErrNotFound is returned
func (s *SQLiteStore) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE profile SET is_admin = ? WHERE id = ?", storage.BoolToInt(isAdmin), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// SaveResetToken persists a password reset token.
func (s *SQLiteStore) SaveResetToken(ctx context.Context, token domain.ResetToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reset_token (id, profile_id, token, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET used=excluded.used`,
		token.ID,
		token.ProfileID,
		token.Token,
		storage.FormatTime(token.ExpiresAt),
		storage.BoolToInt(token.Used),
		storage.FormatTime(token.CreatedAt),
	)
	return err
}

// GetResetTokenByToken looks up a reset token by its secret value.
func (s *SQLiteStore) GetResetTokenByToken(ctx context.Context, token string) (domain.ResetToken, error) {
	var t domain.ResetToken
	var expiresAt, createdAt string
	var used int
	err := s.db.QueryRowContext(ctx,
		"SELECT id, profile_id, token, expires_at, used, created_at FROM reset_token WHERE token = ?", token,
	).Scan(&t.ID, &t.ProfileID, &t.Token, &expiresAt, &used, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ResetToken{}, fmt.Errorf("reset token: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.ResetToken{}, err
	}
	t.Used = used == 1
	t.ExpiresAt, _ = storage.ParseTime(expiresAt)
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}

// InvalidateResetTokens marks every token for the profile as used.
func (s *SQLiteStore) InvalidateResetTokens(ctx context.Context, profileID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE reset_token SET used = 1 WHERE profile_id = ?", profileID)
	return err
}

// DeleteStaleResetTokens removes tokens that expired, or were used, before the cutoff.
// The creation time stands in for the redemption time of used tokens.
func (s *SQLiteStore) DeleteStaleResetTokens(ctx context.Context, before time.Time) (int64, error) {
	cutoff := storage.FormatTime(before)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM reset_token WHERE expires_at < ? OR (used = 1 AND created_at < ?)", cutoff, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanProfile extracts a Profile from a row scanner function.
func scanProfile(scan func(dest ...any) error) (domain.Profile, error) {
	var entity domain.Profile
	var createdAt string
	var weddingDate, lockedUntil sql.NullString
	var isAdmin int
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.CoupleName,
		&weddingDate,
		&entity.PasswordHash,
		&isAdmin,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	entity.IsAdmin = isAdmin == 1
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	if weddingDate.Valid && weddingDate.String != "" {
		if d, err := time.Parse(domain.DateLayout, weddingDate.String); err == nil {
			entity.WeddingDate = &d
		}
	}
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = storage.ParseTime(lockedUntil.String)
	}
	return entity, nil
}
