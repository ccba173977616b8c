package projections

import (
	"time"

	"planner/internal/domain/profile"
)

// ProfileView is the client-safe shape of a profile. Credentials and lockout state are omitted.
type ProfileView struct {
	ID          string    `json:"id"`
	CoupleName  string    `json:"couple_name"`
	WeddingDate string    `json:"wedding_date,omitempty"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProfileView converts a domain profile for output.
func NewProfileView(p profile.Profile) ProfileView {
	return ProfileView{
		ID:          p.ID,
		CoupleName:  p.CoupleName,
		WeddingDate: p.WeddingDateString(),
		Email:       p.Email,
		IsAdmin:     p.IsAdmin,
		CreatedAt:   p.CreatedAt,
	}
}
