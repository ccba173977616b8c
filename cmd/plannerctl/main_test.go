package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"planner/internal/adapters/storage"
	auditStore "planner/internal/adapters/storage/audit"
	profileStore "planner/internal/adapters/storage/profile"
	"planner/internal/adapters/storage/storagetest"
	taskStore "planner/internal/adapters/storage/task"
	"planner/internal/domain/audit"
)

func TestRun_Usage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	for _, args := range [][]string{
		nil,
		{"frobnicate"},
		{"admin", "promote", "a@b.co"},
		{"admin", "grant"},
		{"seed-tasks"},
		{"migrate", "extra"},
		{"purge-tokens", "now"},
	} {
		if err := run(context.Background(), args, dbPath, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			t.Errorf("run(%q) = %v, want usage error", args, err)
		}
	}
	if _, err := os.Stat(dbPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("bad arguments must not create the database: stat err=%v", err)
	}
}

func TestRun_Migrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-db", dbPath, "migrate"}, "ignored.db", &out); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.HasPrefix(out.String(), "schema at version ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_AdminGrantRevoke_SeedTasks(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := storage.MigrateDB(db); err != nil {
		t.Fatal(err)
	}
	storagetest.InsertProfile(t, db, "p1", "ana@example.com", time.Now())

	ctx := context.Background()
	var out bytes.Buffer
	if err := run(ctx, []string{"admin", "grant", "ANA@example.com"}, dbPath, &out); err != nil {
		t.Fatalf("grant: %v", err)
	}
	p, err := profileStore.NewSQLiteStore(db).GetByID(ctx, "p1")
	if err != nil || !p.IsAdmin {
		t.Fatalf("after grant: admin=%v err=%v", p.IsAdmin, err)
	}

	if err := run(ctx, []string{"admin", "revoke", "ana@example.com"}, dbPath, &out); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	p, _ = profileStore.NewSQLiteStore(db).GetByID(ctx, "p1")
	if p.IsAdmin {
		t.Error("admin flag should be cleared")
	}
	events, err := auditStore.NewSQLiteStore(db).List(ctx, auditStore.Filter{ProfileID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Action != audit.ActionAdminRevoked || events[1].Action != audit.ActionAdminGranted {
		t.Errorf("audit = %+v, want revoke then grant", events)
	}

	out.Reset()
	if err := run(ctx, []string{"seed-tasks", "ana@example.com"}, dbPath, &out); err != nil {
		t.Fatalf("seed-tasks: %v", err)
	}
	if out.String() != "ana@example.com: 60 tasks inserted\n" {
		t.Errorf("output = %q", out.String())
	}
	out.Reset()
	if err := run(ctx, []string{"seed-tasks", "ana@example.com"}, dbPath, &out); err != nil {
		t.Fatalf("second seed-tasks: %v", err)
	}
	if n, _ := taskStore.NewSQLiteStore(db).CountByOwner(ctx, "p1"); n != 60 {
		t.Errorf("tasks = %d, want 60 after a repeated seed", n)
	}

	if err := run(ctx, []string{"admin", "grant", "nobody@example.com"}, dbPath, &out); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown email: err=%v", err)
	}
}
