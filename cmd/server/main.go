package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"planner/internal/adapters/changefeed"
	emailPkg "planner/internal/adapters/email"
	web "planner/internal/adapters/http"
	"planner/internal/adapters/http/perf"
	"planner/internal/adapters/storage"
	auditStore "planner/internal/adapters/storage/audit"
	guestStore "planner/internal/adapters/storage/guest"
	profileStore "planner/internal/adapters/storage/profile"
	taskStore "planner/internal/adapters/storage/task"
	vendorStore "planner/internal/adapters/storage/vendor"
	"planner/internal/application/orchestrators"
	"planner/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromOS()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.Logger(os.Stdout))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	schema, err := storage.MigrateDB(db)
	if err != nil {
		return err
	}

	// Performance instrumentation: wrap DB with timing, share the collector with the mux
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, cfg.SlowQuery, collector)

	stores := &web.Stores{
		ProfileStore: profileStore.NewSQLiteStore(timedDB),
		TaskStore:    taskStore.NewSQLiteStore(timedDB),
		VendorStore:  vendorStore.NewSQLiteStore(timedDB),
		GuestStore:   guestStore.NewSQLiteStore(timedDB),
		AuditStore:   auditStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	if cfg.AdminEmail != "" {
		generated, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminDeps{
			ProfileStore: stores.ProfileStore,
			TaskStore:    stores.TaskStore,
			GenerateID:   func() string { return uuid.New().String() },
			Now:          time.Now,
		}, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if generated != "" {
			// Printed once; it is not stored anywhere in plain text.
			slog.Warn("admin_seeded", "email", cfg.AdminEmail, "password", generated)
		}
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom, cfg.ReplyTo)
		slog.Info("config_event", "event", "email_sender", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("config_event", "event", "email_sender", "provider", "noop", "detail", "PLANNER_RESEND_KEY is not set; reset emails are DISABLED")
		} else {
			slog.Info("config_event", "event", "email_sender", "provider", "noop")
		}
	}
	sender = emailPkg.NewRetryingSender(sender, emailPkg.DefaultAttempts, 0)

	csrfKey, err := web.LoadCSRFKey(cfg.CSRFKey, cfg.IsProduction())
	if err != nil {
		return err
	}

	// stop ends background workers and open change streams.
	stop := make(chan struct{})
	var stopOnce sync.Once
	stopAll := func() { stopOnce.Do(func() { close(stop) }) }
	defer stopAll()
	orchestrators.StartTokenPurgeWorker(orchestrators.PurgeResetTokensDeps{
		Store: stores.ProfileStore,
		Now:   time.Now,
	}, time.Hour, stop)

	handler := web.NewMux(stores, web.Options{
		CSRFKey:        csrfKey,
		Secure:         cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		BaseURL:        cfg.BaseURL,
		RateLimit:      cfg.RateLimit,
		SlowRequest:    cfg.SlowRequest,
		Collector:      collector,
		Changes:        changefeed.NewBroker(changefeed.DefaultBuffer),
		Sender:         sender,
		Stop:           stop,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_started", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", schema)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-sigCh:
		slog.Info("server_stopping", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	// Change streams never finish on their own.
	srv.RegisterOnShutdown(stopAll)
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
