package task_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"planner/internal/adapters/storage"
	"planner/internal/adapters/storage/storagetest"
	store "planner/internal/adapters/storage/task"
	domain "planner/internal/domain/task"
)

func seqIDs(prefix string) domain.NewIDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%02d", prefix, n)
	}
}

func TestSQLiteStore_InsertBatchPreservesOrder(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewDB(t)
	storagetest.InsertProfile(t, db, "p1", "a@example.com", time.Now())
	s := store.NewSQLiteStore(db)

	seeded := domain.SeedTasks("p1", time.Now(), seqIDs("t"))
	if err := s.InsertBatch(ctx, seeded); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	got, err := s.ListByOwner(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != len(domain.DefaultTemplate) {
		t.Fatalf("len = %d, want %d", len(got), len(domain.DefaultTemplate))
	}
	for i, tpl := range domain.DefaultTemplate {
		if got[i].Name != tpl.Name || got[i].Phase != tpl.Phase {
			t.Fatalf("task %d = %q/%q, want %q/%q", i, got[i].Phase, got[i].Name, tpl.Phase, tpl.Name)
		}
	}
}

func TestSQLiteStore_ListTiesUseInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewDB(t)
	storagetest.InsertProfile(t, db, "p1", "a@example.com", time.Now())
	s := store.NewSQLiteStore(db)

	same := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	batch := []domain.Task{
		{ID: "z", OwnerID: "p1", Name: "first", Phase: domain.Phase1Week, CreatedAt: same},
		{ID: "a", OwnerID: "p1", Name: "second", Phase: domain.Phase1Week, CreatedAt: same},
	}
	if err := s.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	got, _ := s.ListByOwner(ctx, "p1")
	if len(got) != 2 || got[0].Name != "first" || got[1].Name != "second" {
		t.Errorf("order = %+v", got)
	}
}

func TestSQLiteStore_InsertBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewDB(t)
	storagetest.InsertProfile(t, db, "p1", "a@example.com", time.Now())
	s := store.NewSQLiteStore(db)

	batch := []domain.Task{
		{ID: "t1", OwnerID: "p1", Name: "ok", Phase: domain.Phase1Week, CreatedAt: time.Now()},
		{ID: "t1", OwnerID: "p1", Name: "duplicate id", Phase: domain.Phase1Week, CreatedAt: time.Now()},
	}
	if err := s.InsertBatch(ctx, batch); err == nil {
		t.Fatal("expected error for duplicate id")
	}
	if n, _ := s.CountByOwner(ctx, "p1"); n != 0 {
		t.Errorf("count after failed batch = %d, want 0", n)
	}
}

func TestSQLiteStore_SetCompleted(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewDB(t)
	storagetest.InsertProfile(t, db, "p1", "a@example.com", time.Now())
	s := store.NewSQLiteStore(db)

	if err := s.InsertBatch(ctx, domain.SeedTasks("p1", time.Now(), seqIDs("t"))); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if err := s.SetCompleted(ctx, "t-01", true); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	got, err := s.GetByID(ctx, "t-01")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Completed {
		t.Error("task should be completed")
	}

	if err := s.SetCompleted(ctx, "missing", true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_SummaryByOwner(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewDB(t)
	storagetest.InsertProfile(t, db, "p1", "a@example.com", time.Now())
	storagetest.InsertProfile(t, db, "p2", "b@example.com", time.Now())
	s := store.NewSQLiteStore(db)

	s.InsertBatch(ctx, domain.SeedTasks("p1", time.Now(), seqIDs("a")))
	s.InsertBatch(ctx, domain.SeedTasks("p2", time.Now(), seqIDs("b")))
	for i := 1; i <= 30; i++ {
		if err := s.SetCompleted(ctx, fmt.Sprintf("a-%02d", i), true); err != nil {
			t.Fatalf("SetCompleted: %v", err)
		}
	}

	summary, err := s.SummaryByOwner(ctx)
	if err != nil {
		t.Fatalf("SummaryByOwner: %v", err)
	}
	want := map[string]domain.Summary{
		"p1": {Total: 60, Completed: 30, Percentage: 50},
		"p2": {Total: 60, Completed: 0, Percentage: 0},
	}
	for owner, w := range want {
		if summary[owner] != w {
			t.Errorf("summary[%s] = %+v, want %+v", owner, summary[owner], w)
		}
	}
}
