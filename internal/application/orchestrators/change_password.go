package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"planner/internal/domain/audit"
	"planner/internal/domain/profile"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	ProfileID       string
	CurrentPassword string
	NewPassword     string
}

// ProfileStoreForChangePassword defines the store interface needed by ChangePassword.
type ProfileStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
	InvalidateResetTokens(ctx context.Context, profileID string) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	ProfileStore ProfileStoreForChangePassword
	Audit        *Auditor
}

var (
	ErrPasswordFieldsMissing = errors.New("current and new password are required")
	ErrCurrentPasswordWrong  = errors.New("current password is incorrect")
	ErrNewPasswordSame       = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the current password and updates to the new one.
// PRE: ProfileID is valid, both passwords are non-empty
// POST: Password is updated and outstanding reset links are invalidated
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.ProfileID == "" || input.CurrentPassword == "" || input.NewPassword == "" {
		return ErrPasswordFieldsMissing
	}

	p, err := deps.ProfileStore.GetByID(ctx, input.ProfileID)
	if err != nil {
		return err
	}

	if err := p.CheckPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}

	// Set new password (validates length, hashes)
	if err := p.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}
	if err := deps.ProfileStore.InvalidateResetTokens(ctx, p.ID); err != nil {
		return err
	}

	deps.Audit.Record(ctx, p.ID, p.ID, audit.ActionPasswordChanged, "password changed")
	slog.Info("auth_event", "event", "password_changed", "profile_id", input.ProfileID)
	return nil
}
