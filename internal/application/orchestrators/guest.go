package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"planner/internal/adapters/changefeed"
	"planner/internal/domain/access"
	"planner/internal/domain/guest"
)

// GuestStoreForOrchestrator defines the store interface needed by guest orchestrators.
type GuestStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (guest.Guest, error)
	Save(ctx context.Context, g guest.Guest) error
	Delete(ctx context.Context, id string) error
}

// GuestDeps holds dependencies for the guest orchestrators.
type GuestDeps struct {
	GuestStore GuestStoreForOrchestrator
	Changes    changefeed.Publisher
	GenerateID func() string
	Now        func() time.Time
}

// GuestFields carries the user-editable guest columns.
type GuestFields struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	GroupLabel   string
	RSVPStatus   string
	PlusOne      string
	TableNumber  *int
	DietaryNotes string
}

// GuestPatch carries a partial update; nil fields are left unchanged.
// ClearTableNumber unsets the table assignment and wins over TableNumber.
type GuestPatch struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	GroupLabel       *string
	RSVPStatus       *string
	PlusOne          *string
	TableNumber      *int
	ClearTableNumber bool
	DietaryNotes     *string
}

// --- Add Guest ---

// AddGuestInput carries input for AddGuest.
type AddGuestInput struct {
	Caller access.Caller
	Fields GuestFields
}

// ExecuteAddGuest creates a guest owned by the caller. An empty RSVP status means pending.
// PRE: Caller is authenticated; FirstName and LastName are non-empty
// POST: Guest persisted with owner stamped from the caller; one change published
func ExecuteAddGuest(ctx context.Context, input AddGuestInput, deps GuestDeps) (guest.Guest, error) {
	if err := access.RequireWrite(input.Caller, input.Caller.ProfileID); err != nil {
		return guest.Guest{}, err
	}

	f := input.Fields
	status, err := guest.ParseRSVPStatus(f.RSVPStatus)
	if err != nil {
		return guest.Guest{}, err
	}
	g := guest.Guest{
		ID:           deps.GenerateID(),
		OwnerID:      input.Caller.ProfileID,
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		Email:        f.Email,
		Phone:        f.Phone,
		GroupLabel:   f.GroupLabel,
		RSVPStatus:   status,
		PlusOne:      f.PlusOne,
		TableNumber:  f.TableNumber,
		DietaryNotes: f.DietaryNotes,
		CreatedAt:    deps.Now(),
	}
	if err := g.Validate(); err != nil {
		return guest.Guest{}, err
	}
	if err := deps.GuestStore.Save(ctx, g); err != nil {
		return guest.Guest{}, err
	}

	publishChange(deps.Changes, changefeed.CollectionGuests, changefeed.OpInsert, g.OwnerID, g.ID, deps.Now())
	slog.Info("planner_event", "event", "guest_added", "guest_id", g.ID, "owner_id", g.OwnerID)
	return g, nil
}

// --- Update Guest ---

// UpdateGuestInput carries input for UpdateGuest.
type UpdateGuestInput struct {
	Caller  access.Caller
	GuestID string
	Patch   GuestPatch
}

// ExecuteUpdateGuest applies a partial update to one of the caller's guests.
// PRE: GuestID is non-empty
// POST: Guest updated and one change published
// INVARIANT: Owner and creation time never change
func ExecuteUpdateGuest(ctx context.Context, input UpdateGuestInput, deps GuestDeps) (guest.Guest, error) {
	g, err := deps.GuestStore.GetByID(ctx, input.GuestID)
	if err != nil {
		return guest.Guest{}, err
	}
	if err := access.RequireWrite(input.Caller, g.OwnerID); err != nil {
		return guest.Guest{}, err
	}

	p := input.Patch
	applyString(&g.FirstName, p.FirstName, true)
	applyString(&g.LastName, p.LastName, true)
	applyString(&g.Email, p.Email, false)
	applyString(&g.Phone, p.Phone, false)
	applyString(&g.GroupLabel, p.GroupLabel, false)
	applyString(&g.PlusOne, p.PlusOne, false)
	applyString(&g.DietaryNotes, p.DietaryNotes, false)
	if p.RSVPStatus != nil {
		status, err := guest.ParseRSVPStatus(*p.RSVPStatus)
		if err != nil {
			return guest.Guest{}, err
		}
		g.RSVPStatus = status
	}
	switch {
	case p.ClearTableNumber:
		g.TableNumber = nil
	case p.TableNumber != nil:
		n := *p.TableNumber
		g.TableNumber = &n
	}

	if err := g.Validate(); err != nil {
		return guest.Guest{}, err
	}
	if err := deps.GuestStore.Save(ctx, g); err != nil {
		return guest.Guest{}, err
	}

	publishChange(deps.Changes, changefeed.CollectionGuests, changefeed.OpUpdate, g.OwnerID, g.ID, deps.Now())
	return g, nil
}

// --- Delete Guest ---

// DeleteGuestInput carries input for DeleteGuest.
type DeleteGuestInput struct {
	Caller  access.Caller
	GuestID string
}

// ExecuteDeleteGuest removes one of the caller's guests.
// POST: Guest removed and one change published
func ExecuteDeleteGuest(ctx context.Context, input DeleteGuestInput, deps GuestDeps) error {
	g, err := deps.GuestStore.GetByID(ctx, input.GuestID)
	if err != nil {
		return err
	}
	if err := access.RequireWrite(input.Caller, g.OwnerID); err != nil {
		return err
	}
	if err := deps.GuestStore.Delete(ctx, g.ID); err != nil {
		return err
	}

	publishChange(deps.Changes, changefeed.CollectionGuests, changefeed.OpDelete, g.OwnerID, g.ID, deps.Now())
	slog.Info("planner_event", "event", "guest_deleted", "guest_id", g.ID, "owner_id", g.OwnerID)
	return nil
}
