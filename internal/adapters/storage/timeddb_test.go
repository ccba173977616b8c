package storage

import (
	"context"
	"testing"
	"time"

	"planner/internal/adapters/http/perf"
)

func TestTimedDB_PassesThrough(t *testing.T) {
	db := openTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, time.Hour, collector)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if _, err := tdb.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)", "a", "1"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var v string
	if err := tdb.QueryRowContext(ctx, "SELECT v FROM kv WHERE k = ?", "a").Scan(&v); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if v != "1" {
		t.Errorf("v = %q, want 1", v)
	}

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)", "b", "2"); err != nil {
		t.Fatalf("tx insert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	rows, err := tdb.QueryContext(ctx, "SELECT k FROM kv ORDER BY k")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	if n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}

	// BeginTx carries no statement and is not recorded.
	if got := collector.TotalRecorded(); got != 4 {
		t.Errorf("recorded = %d, want 4", got)
	}
	snap := collector.Snapshot(time.Time{}, 10)
	labels := map[string]bool{}
	for _, q := range snap.SlowestQueries {
		labels[q.Label] = true
	}
	if !labels["INSERT kv"] || !labels["SELECT kv"] {
		t.Errorf("query labels = %v", labels)
	}
}

func TestNewTimedDB_DefaultThreshold(t *testing.T) {
	tdb := NewTimedDB(nil, 0, nil)
	if tdb.threshold != DefaultSlowQuery {
		t.Errorf("threshold = %v, want %v", tdb.threshold, DefaultSlowQuery)
	}
}

func TestStatementKind(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM task WHERE owner_id = ?": "SELECT task",
		"insert into vendor (id) values (?)":     "INSERT vendor",
		"UPDATE guest SET rsvp_status = ?":       "UPDATE guest",
		"DELETE FROM profile WHERE id = ?":       "DELETE profile",
		"":                                       "",
		"PRAGMA foreign_keys":                    "PRAGMA",
	}
	for in, want := range tests {
		if got := statementKind(in); got != want {
			t.Errorf("statementKind(%q) = %q, want %q", in, got, want)
		}
	}
}
