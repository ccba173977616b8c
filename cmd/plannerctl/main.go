// Command plannerctl is the operator tool for a planner database. It is the only
// way to grant or revoke the admin flag.
//
//	plannerctl [-db planner.db] migrate
//	plannerctl [-db planner.db] admin grant|revoke <email>
//	plannerctl [-db planner.db] seed-tasks <email>
//	plannerctl [-db planner.db] purge-tokens
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"planner/internal/adapters/storage"
	auditStore "planner/internal/adapters/storage/audit"
	profileStore "planner/internal/adapters/storage/profile"
	taskStore "planner/internal/adapters/storage/task"
	"planner/internal/application/orchestrators"
	"planner/internal/config"
	"planner/internal/domain/audit"
	"planner/internal/domain/profile"
)

var errUsage = errors.New("usage: plannerctl [-db path] migrate | admin grant|revoke <email> | seed-tasks <email> | purge-tokens")

func main() {
	cfg, err := config.FromOS()
	if err != nil {
		fmt.Fprintln(os.Stderr, "plannerctl:", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger(os.Stderr))

	if err := run(context.Background(), os.Args[1:], cfg.DBPath, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "plannerctl:", err)
		os.Exit(1)
	}
}

// run executes one command. defaultDB is used unless -db is given.
func run(ctx context.Context, args []string, defaultDB string, out io.Writer) error {
	fs := flag.NewFlagSet("plannerctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("db", defaultDB, "path to the SQLite database")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	args = fs.Args()
	if err := checkArgs(args); err != nil {
		return err
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := storage.MigrateDB(db)
	if err != nil {
		return err
	}
	profiles := profileStore.NewSQLiteStore(db)

	switch args[0] {
	case "migrate":
		fmt.Fprintf(out, "schema at version %d\n", version)
		return nil

	case "admin":
		p, err := profiles.GetByEmail(ctx, profile.NormalizeEmail(args[2]))
		if err != nil {
			return fmt.Errorf("no profile for %s: %w", args[2], err)
		}
		grant := args[1] == "grant"
		if err := profiles.SetAdmin(ctx, p.ID, grant); err != nil {
			return err
		}
		action := audit.ActionAdminRevoked
		if grant {
			action = audit.ActionAdminGranted
		}
		auditor := &orchestrators.Auditor{
			Store:      auditStore.NewSQLiteStore(db),
			GenerateID: func() string { return uuid.New().String() },
			Now:        time.Now,
		}
		auditor.Record(ctx, "", p.ID, action, "plannerctl admin "+args[1]+" "+p.Email)
		slog.Info("admin_event", "event", string(action), "profile_id", p.ID, "email", p.Email)
		fmt.Fprintf(out, "%s is_admin=%t\n", p.Email, grant)
		return nil

	case "seed-tasks":
		p, err := profiles.GetByEmail(ctx, profile.NormalizeEmail(args[1]))
		if err != nil {
			return fmt.Errorf("no profile for %s: %w", args[1], err)
		}
		n, err := orchestrators.ExecuteSeedDefaultTasks(ctx, orchestrators.SeedTasksDeps{
			TaskStore:  taskStore.NewSQLiteStore(db),
			GenerateID: func() string { return uuid.New().String() },
			Now:        time.Now,
		}, p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d tasks inserted\n", p.Email, n)
		return nil

	case "purge-tokens":
		n, err := orchestrators.ExecutePurgeResetTokens(ctx, orchestrators.PurgeResetTokensDeps{Store: profiles, Now: time.Now})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d reset tokens removed\n", n)
		return nil
	}
	return errUsage
}

// checkArgs rejects unknown commands and wrong arity before the database is touched.
func checkArgs(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "migrate", "purge-tokens":
		if len(args) == 1 {
			return nil
		}
	case "admin":
		if len(args) == 3 && (args[1] == "grant" || args[1] == "revoke") {
			return nil
		}
	case "seed-tasks":
		if len(args) == 2 {
			return nil
		}
	}
	return errUsage
}
