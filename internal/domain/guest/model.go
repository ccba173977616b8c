package guest

import (
	"errors"
	"strings"
	"time"
)

// RSVPStatus is a guest's attendance state.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPAttending RSVPStatus = "attending"
	RSVPDeclined  RSVPStatus = "declined"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxNotesLength = 2000
)

// Domain errors
var (
	ErrEmptyOwnerID    = errors.New("guest owner is required")
	ErrEmptyFirstName  = errors.New("first name is required")
	ErrEmptyLastName   = errors.New("last name is required")
	ErrNameTooLong     = errors.New("guest names cannot exceed 100 characters")
	ErrNotesTooLong    = errors.New("dietary notes cannot exceed 2000 characters")
	ErrInvalidRSVP     = errors.New("rsvp status must be one of: pending, attending, declined")
	ErrInvalidTableNum = errors.New("table number must be positive")
)

// Guest is one invitee on a profile's guest list.
type Guest struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	GroupLabel   string     `json:"group_label"`
	RSVPStatus   RSVPStatus `json:"rsvp_status"`
	PlusOne      string     `json:"plus_one"`
	TableNumber  *int       `json:"table_number"`
	DietaryNotes string     `json:"dietary_notes"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RSVPCounts tallies a guest list by status.
type RSVPCounts struct {
	Attending int `json:"attending"`
	Declined  int `json:"declined"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// ParseRSVPStatus accepts a status string; empty input means pending.
func ParseRSVPStatus(s string) (RSVPStatus, error) {
	switch RSVPStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", RSVPPending:
		return RSVPPending, nil
	case RSVPAttending:
		return RSVPAttending, nil
	case RSVPDeclined:
		return RSVPDeclined, nil
	}
	return "", ErrInvalidRSVP
}

// FullName joins first and last name.
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Validate checks if the Guest has valid data.
// PRE: Guest struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Guest) Validate() error {
	if g.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(g.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(g.LastName) == "" {
		return ErrEmptyLastName
	}
	if len(g.FirstName) > MaxNameLength || len(g.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(g.DietaryNotes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if _, err := ParseRSVPStatus(string(g.RSVPStatus)); err != nil {
		return err
	}
	if g.TableNumber != nil && *g.TableNumber <= 0 {
		return ErrInvalidTableNum
	}
	return nil
}

// CountRSVP tallies guests by RSVP status. Unknown statuses count toward Total only.
func CountRSVP(guests []Guest) RSVPCounts {
	var c RSVPCounts
	for _, g := range guests {
		switch g.RSVPStatus {
		case RSVPAttending:
			c.Attending++
		case RSVPDeclined:
			c.Declined++
		case RSVPPending:
			c.Pending++
		}
		c.Total++
	}
	return c
}
