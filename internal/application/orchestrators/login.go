package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"planner/internal/domain/audit"
	"planner/internal/domain/profile"
)

// ProfileStoreForLogin defines the store interface needed by Login.
type ProfileStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	ProfileID string
	Email     string
	IsAdmin   bool
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	ProfileStore ProfileStoreForLogin
	Now          func() time.Time
	Audit        *Auditor
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileLocked      = errors.New("too many failed attempts, try again in 15 minutes")
)

// ExecuteLogin validates credentials and returns identity info for session creation.
// PRE: Valid email and password provided
// POST: Returns identity on success, records failed login on failure
// INVARIANT: Profile must not be locked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	email := profile.NormalizeEmail(input.Email)
	now := deps.Now()

	p, err := deps.ProfileStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if p.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return LoginResult{}, ErrProfileLocked
	}

	if err := p.CheckPassword(input.Password); err != nil {
		p.RecordFailedLogin(now)
		_ = deps.ProfileStore.Save(ctx, p)
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", p.FailedLogins)
		if p.IsLocked(now) {
			deps.Audit.Record(ctx, "", p.ID, audit.ActionLoginLocked, fmt.Sprintf("locked after %d failed logins", p.FailedLogins))
			return LoginResult{}, ErrProfileLocked
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if p.FailedLogins > 0 || !p.LockedUntil.IsZero() {
		p.ResetFailedLogins()
		_ = deps.ProfileStore.Save(ctx, p)
	}

	slog.Info("auth_event", "event", "login_success", "profile_id", p.ID, "is_admin", p.IsAdmin)

	return LoginResult{
		ProfileID: p.ID,
		Email:     p.Email,
		IsAdmin:   p.IsAdmin,
	}, nil
}
