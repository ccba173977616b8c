// Package storagetest opens migrated throwaway databases for store tests.
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"planner/internal/adapters/storage"
)

// NewDB returns a fully migrated database in t.TempDir(), closed on cleanup.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// InsertProfile adds a bare profile row so owned rows satisfy their foreign keys.
func InsertProfile(t *testing.T, db *sql.DB, id, email string, createdAt time.Time) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO profile (id, email, couple_name, created_at) VALUES (?, ?, ?, ?)",
		id, email, "Couple "+id, storage.FormatTime(createdAt))
	if err != nil {
		t.Fatalf("failed to insert profile %s: %v", id, err)
	}
}
