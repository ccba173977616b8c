package profile

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength      = 254
	MaxCoupleNameLength = 120
)

// DateLayout is the wire and storage format of WeddingDate.
const DateLayout = "2006-01-02"

// Lockout policy.
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// Domain errors
var (
	ErrInvalidEmail      = errors.New("email must contain '@'")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrEmailTooLong      = errors.New("email cannot exceed 254 characters")
	ErrEmptyCoupleName   = errors.New("couple name cannot be empty")
	ErrCoupleNameTooLong = errors.New("couple name cannot exceed 120 characters")
	ErrInvalidDate       = errors.New("wedding date must be YYYY-MM-DD")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrPasswordTooShort  = errors.New("password must be at least 12 characters")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrTokenExpired      = errors.New("reset link has expired")
	ErrTokenUsed         = errors.New("reset link has already been used")
)

// Profile is the single record held for each registered couple.
// IsAdmin is only ever set by operators (see cmd/plannerctl), never through the web surface.
type Profile struct {
	ID           string
	CoupleName   string
	WeddingDate  *time.Time
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// ResetToken is a single-use, time-limited password reset token.
type ResetToken struct {
	ID        string
	ProfileID string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// NormalizeEmail lowercases and trims an email address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseWeddingDate parses an optional YYYY-MM-DD date. Empty input yields nil.
func ParseWeddingDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if len(p.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(p.CoupleName) == "" {
		return ErrEmptyCoupleName
	}
	if len(p.CoupleName) > MaxCoupleNameLength {
		return ErrCoupleNameTooLong
	}
	return nil
}

// WeddingDateString returns the wedding date as YYYY-MM-DD, or "" when unset.
func (p *Profile) WeddingDateString() string {
	if p.WeddingDate == nil {
		return ""
	}
	return p.WeddingDate.Format(DateLayout)
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 12 characters
// POST: PasswordHash is set to bcrypt hash
func (p *Profile) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < 12 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Profile fields are not mutated
func (p *Profile) CheckPassword(plaintext string) error {
	if p.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether the profile is locked out at now.
func (p *Profile) IsLocked(now time.Time) bool {
	if p.LockedUntil.IsZero() {
		return false
	}
	return now.Before(p.LockedUntil)
}

// RecordFailedLogin increments the failure counter and locks the profile
// once MaxFailedLogins is reached. An expired lock starts a fresh count.
func (p *Profile) RecordFailedLogin(now time.Time) {
	if !p.LockedUntil.IsZero() && !now.Before(p.LockedUntil) {
		p.ResetFailedLogins()
	}
	p.FailedLogins++
	if p.FailedLogins >= MaxFailedLogins {
		p.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
func (p *Profile) ResetFailedLogins() {
	p.FailedLogins = 0
	p.LockedUntil = time.Time{}
}

// IsExpired returns true if the token has expired at now.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Check returns the reason a token cannot be redeemed at now, or nil.
func (t *ResetToken) Check(now time.Time) error {
	if t.Used {
		return ErrTokenUsed
	}
	if t.IsExpired(now) {
		return ErrTokenExpired
	}
	return nil
}
