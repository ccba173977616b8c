package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// ResetTokenPurger defines the store interface needed by PurgeResetTokens.
type ResetTokenPurger interface {
	DeleteStaleResetTokens(ctx context.Context, before time.Time) (int64, error)
}

// PurgeResetTokensDeps holds dependencies for PurgeResetTokens.
type PurgeResetTokensDeps struct {
	Store ResetTokenPurger
	Now   func() time.Time
}

// ExecutePurgeResetTokens deletes reset tokens that expired or were used more than a day ago.
// POST: Returns the number of rows removed
func ExecutePurgeResetTokens(ctx context.Context, deps PurgeResetTokensDeps) (int64, error) {
	n, err := deps.Store.DeleteStaleResetTokens(ctx, deps.Now().Add(-24*time.Hour))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("auth_event", "event", "reset_tokens_purged", "count", n)
	}
	return n, nil
}

// StartTokenPurgeWorker starts a background goroutine that periodically purges stale reset tokens.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartTokenPurgeWorker(deps PurgeResetTokensDeps, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if _, err := ExecutePurgeResetTokens(ctx, deps); err != nil {
					slog.Error("token_purge_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("token_purge_worker_stopped")
				return
			}
		}
	}()
}
