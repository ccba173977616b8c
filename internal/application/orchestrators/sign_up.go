package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-password/password"

	"planner/internal/domain/audit"
	"planner/internal/domain/profile"
)

// ProfileStoreForSignUp defines the store interface needed by SignUp.
type ProfileStoreForSignUp interface {
	GetByEmail(ctx context.Context, email string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
	Delete(ctx context.Context, id string) error
}

// SignUpInput carries input for the sign-up orchestrator.
type SignUpInput struct {
	Email       string
	Password    string
	CoupleName  string
	WeddingDate string // YYYY-MM-DD or empty
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	ProfileStore ProfileStoreForSignUp
	TaskStore    TaskStoreForSeed
	GenerateID   func() string
	Now          func() time.Time
	Audit        *Auditor
}

var ErrEmailAlreadyExists = errors.New("a profile with this email already exists")

// ExecuteSignUp registers a couple and seeds their default checklist.
// PRE: Valid email, password >= 12 chars, non-empty couple name
// POST: Profile and its 60 default tasks exist, or neither does
// INVARIANT: Email must be unique
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (profile.Profile, error) {
	weddingDate, err := profile.ParseWeddingDate(input.WeddingDate)
	if err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{
		ID:          deps.GenerateID(),
		Email:       profile.NormalizeEmail(input.Email),
		CoupleName:  input.CoupleName,
		WeddingDate: weddingDate,
		CreatedAt:   deps.Now(),
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	if err := p.SetPassword(input.Password); err != nil {
		return profile.Profile{}, err
	}

	if _, err := deps.ProfileStore.GetByEmail(ctx, p.Email); err == nil {
		return profile.Profile{}, ErrEmailAlreadyExists
	}

	// A concurrent sign-up can pass the lookup above; the unique email column decides.
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		if errors.Is(err, profile.ErrEmailTaken) {
			return profile.Profile{}, ErrEmailAlreadyExists
		}
		return profile.Profile{}, err
	}

	seedDeps := SeedTasksDeps{TaskStore: deps.TaskStore, GenerateID: deps.GenerateID, Now: deps.Now}
	if _, err := ExecuteSeedDefaultTasks(ctx, seedDeps, p.ID); err != nil {
		if delErr := deps.ProfileStore.Delete(ctx, p.ID); delErr != nil {
			slog.Error("auth_event", "event", "signup_rollback_failed", "profile_id", p.ID, "error", delErr)
		}
		return profile.Profile{}, fmt.Errorf("seed default tasks: %w", err)
	}

	deps.Audit.Record(ctx, p.ID, p.ID, audit.ActionProfileCreated, "signed up as "+p.Email)
	slog.Info("auth_event", "event", "profile_created", "profile_id", p.ID, "email", p.Email)
	return p, nil
}

// ProfileStoreForSeedAdmin defines the store interface needed by SeedAdmin.
type ProfileStoreForSeedAdmin interface {
	ProfileStoreForSignUp
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	ProfileStore ProfileStoreForSeedAdmin
	TaskStore    TaskStoreForSeed
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSeedAdmin makes sure a bootstrap administrator exists.
// An existing profile with that email is promoted in place. When pw is empty a
// random password is generated and returned so the caller can print it once.
// PRE: email is non-empty
// POST: Returns the generated password, or "" when none was needed
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, email, pw string) (string, error) {
	if email == "" {
		return "", errors.New("admin email is required")
	}

	if existing, err := deps.ProfileStore.GetByEmail(ctx, email); err == nil {
		if existing.IsAdmin {
			return "", nil
		}
		if err := deps.ProfileStore.SetAdmin(ctx, existing.ID, true); err != nil {
			return "", err
		}
		slog.Info("auth_event", "event", "admin_promoted", "profile_id", existing.ID, "email", existing.Email)
		return "", nil
	}

	generated := ""
	if pw == "" {
		var err error
		pw, err = password.Generate(20, 4, 2, false, false)
		if err != nil {
			return "", fmt.Errorf("generate admin password: %w", err)
		}
		generated = pw
	}

	p, err := ExecuteSignUp(ctx, SignUpInput{
		Email:      email,
		Password:   pw,
		CoupleName: "Administrator",
	}, SignUpDeps{
		ProfileStore: deps.ProfileStore,
		TaskStore:    deps.TaskStore,
		GenerateID:   deps.GenerateID,
		Now:          deps.Now,
	})
	if err != nil {
		return "", err
	}
	if err := deps.ProfileStore.SetAdmin(ctx, p.ID, true); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "admin_seeded", "profile_id", p.ID, "email", p.Email)
	return generated, nil
}
