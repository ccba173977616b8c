package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"planner/internal/adapters/email"
	"planner/internal/domain/audit"
	"planner/internal/domain/profile"
)

// ProfileStoreForReset defines the store interface needed by the password reset flow.
type ProfileStoreForReset interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	GetByEmail(ctx context.Context, email string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
	SaveResetToken(ctx context.Context, token profile.ResetToken) error
	GetResetTokenByToken(ctx context.Context, token string) (profile.ResetToken, error)
	InvalidateResetTokens(ctx context.Context, profileID string) error
}

// RequestResetInput carries input for RequestPasswordReset.
type RequestResetInput struct {
	Email string
}

// RequestResetDeps holds dependencies for RequestPasswordReset.
type RequestResetDeps struct {
	ProfileStore  ProfileStoreForReset
	Sender        email.Sender
	BaseURL       string
	GenerateID    func() string
	GenerateToken func() string
	Now           func() time.Time
}

var ErrInvalidResetToken = errors.New("invalid or unknown reset link")

// ExecuteRequestPasswordReset issues a one-hour reset token and emails the link.
// Unknown emails are not an error, so the response does not reveal which addresses exist.
// PRE: deps.Sender is non-nil
// POST: When the email matches a profile, earlier tokens are invalidated and a new one is sent
func ExecuteRequestPasswordReset(ctx context.Context, input RequestResetInput, deps RequestResetDeps) error {
	addr := profile.NormalizeEmail(input.Email)
	if addr == "" {
		return nil
	}

	p, err := deps.ProfileStore.GetByEmail(ctx, addr)
	if err != nil {
		slog.Info("auth_event", "event", "reset_requested", "email", addr, "outcome", "unknown_email")
		return nil
	}

	if err := deps.ProfileStore.InvalidateResetTokens(ctx, p.ID); err != nil {
		return err
	}

	now := deps.Now()
	tok := profile.ResetToken{
		ID:        deps.GenerateID(),
		ProfileID: p.ID,
		Token:     deps.GenerateToken(),
		ExpiresAt: now.Add(profile.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := deps.ProfileStore.SaveResetToken(ctx, tok); err != nil {
		return err
	}

	link := deps.BaseURL + "/reset-password?token=" + url.QueryEscape(tok.Token)
	_, err = deps.Sender.Send(ctx, email.PasswordResetMessage(p.Email, p.CoupleName, link))
	if err != nil {
		slog.Error("auth_event", "event", "reset_email_failed", "profile_id", p.ID, "error", err)
		return fmt.Errorf("send reset email: %w", err)
	}

	slog.Info("auth_event", "event", "reset_requested", "profile_id", p.ID, "outcome", "sent")
	return nil
}

// ConfirmResetInput carries input for ConfirmPasswordReset.
type ConfirmResetInput struct {
	Token       string
	NewPassword string
}

// ConfirmResetDeps holds dependencies for ConfirmPasswordReset.
// RevokeSessions, when set, signs the profile out everywhere after the reset.
type ConfirmResetDeps struct {
	ProfileStore   ProfileStoreForReset
	Now            func() time.Time
	RevokeSessions func(profileID string) int
	Audit          *Auditor
}

// ExecuteConfirmPasswordReset redeems a reset token and sets the new password.
// PRE: Token and NewPassword are non-empty
// POST: Password updated, lockout cleared, every token for the profile invalidated
func ExecuteConfirmPasswordReset(ctx context.Context, input ConfirmResetInput, deps ConfirmResetDeps) error {
	if input.Token == "" {
		return ErrInvalidResetToken
	}

	tok, err := deps.ProfileStore.GetResetTokenByToken(ctx, input.Token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := tok.Check(deps.Now()); err != nil {
		return err
	}

	p, err := deps.ProfileStore.GetByID(ctx, tok.ProfileID)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := p.SetPassword(input.NewPassword); err != nil {
		return err
	}
	p.ResetFailedLogins()

	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}
	if err := deps.ProfileStore.InvalidateResetTokens(ctx, p.ID); err != nil {
		return err
	}

	revoked := 0
	if deps.RevokeSessions != nil {
		revoked = deps.RevokeSessions(p.ID)
	}

	deps.Audit.Record(ctx, p.ID, p.ID, audit.ActionPasswordReset, fmt.Sprintf("password reset by link, %d sessions revoked", revoked))
	slog.Info("auth_event", "event", "password_reset", "profile_id", p.ID, "sessions_revoked", revoked)
	return nil
}
