package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"planner/internal/adapters/changefeed"
	"planner/internal/domain/access"
	"planner/internal/domain/vendor"
)

// VendorStoreForOrchestrator defines the store interface needed by vendor orchestrators.
type VendorStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (vendor.Vendor, error)
	Save(ctx context.Context, v vendor.Vendor) error
	Delete(ctx context.Context, id string) error
}

// VendorDeps holds dependencies for the vendor orchestrators.
type VendorDeps struct {
	VendorStore VendorStoreForOrchestrator
	Changes     changefeed.Publisher
	GenerateID  func() string
	Now         func() time.Time
}

// VendorFields carries the user-editable vendor columns.
type VendorFields struct {
	Name        string
	Type        string
	ContactName string
	Email       string
	Phone       string
	Cost        string
	Notes       string
}

// VendorPatch carries a partial update; nil fields are left unchanged.
type VendorPatch struct {
	Name        *string
	Type        *string
	ContactName *string
	Email       *string
	Phone       *string
	Cost        *string
	Notes       *string
}

// --- Add Vendor ---

// AddVendorInput carries input for AddVendor.
type AddVendorInput struct {
	Caller access.Caller
	Fields VendorFields
}

// ExecuteAddVendor creates a vendor owned by the caller.
// PRE: Caller is authenticated; Name and Type are non-empty
// POST: Vendor persisted with owner stamped from the caller; one change published
func ExecuteAddVendor(ctx context.Context, input AddVendorInput, deps VendorDeps) (vendor.Vendor, error) {
	if err := access.RequireWrite(input.Caller, input.Caller.ProfileID); err != nil {
		return vendor.Vendor{}, err
	}

	f := input.Fields
	v := vendor.Vendor{
		ID:          deps.GenerateID(),
		OwnerID:     input.Caller.ProfileID,
		Name:        strings.TrimSpace(f.Name),
		Type:        strings.TrimSpace(f.Type),
		ContactName: f.ContactName,
		Email:       f.Email,
		Phone:       f.Phone,
		Cost:        f.Cost,
		Notes:       f.Notes,
		CreatedAt:   deps.Now(),
	}
	if err := v.Validate(); err != nil {
		return vendor.Vendor{}, err
	}
	if err := deps.VendorStore.Save(ctx, v); err != nil {
		return vendor.Vendor{}, err
	}

	publishChange(deps.Changes, changefeed.CollectionVendors, changefeed.OpInsert, v.OwnerID, v.ID, deps.Now())
	slog.Info("planner_event", "event", "vendor_added", "vendor_id", v.ID, "owner_id", v.OwnerID)
	return v, nil
}

// --- Update Vendor ---

// UpdateVendorInput carries input for UpdateVendor.
type UpdateVendorInput struct {
	Caller   access.Caller
	VendorID string
	Patch    VendorPatch
}

// ExecuteUpdateVendor applies a partial update to one of the caller's vendors.
// PRE: VendorID is non-empty
// POST: Vendor updated and one change published
// INVARIANT: Owner and creation time never change
func ExecuteUpdateVendor(ctx context.Context, input UpdateVendorInput, deps VendorDeps) (vendor.Vendor, error) {
	v, err := deps.VendorStore.GetByID(ctx, input.VendorID)
	if err != nil {
		return vendor.Vendor{}, err
	}
	if err := access.RequireWrite(input.Caller, v.OwnerID); err != nil {
		return vendor.Vendor{}, err
	}

	p := input.Patch
	applyString(&v.Name, p.Name, true)
	applyString(&v.Type, p.Type, true)
	applyString(&v.ContactName, p.ContactName, false)
	applyString(&v.Email, p.Email, false)
	applyString(&v.Phone, p.Phone, false)
	applyString(&v.Cost, p.Cost, false)
	applyString(&v.Notes, p.Notes, false)

	if err := v.Validate(); err != nil {
		return vendor.Vendor{}, err
	}
	if err := deps.VendorStore.Save(ctx, v); err != nil {
		return vendor.Vendor{}, err
	}

	publishChange(deps.Changes, changefeed.CollectionVendors, changefeed.OpUpdate, v.OwnerID, v.ID, deps.Now())
	return v, nil
}

// --- Delete Vendor ---

// DeleteVendorInput carries input for DeleteVendor.
type DeleteVendorInput struct {
	Caller   access.Caller
	VendorID string
}

// ExecuteDeleteVendor removes one of the caller's vendors.
// POST: Vendor removed and one change published
func ExecuteDeleteVendor(ctx context.Context, input DeleteVendorInput, deps VendorDeps) error {
	v, err := deps.VendorStore.GetByID(ctx, input.VendorID)
	if err != nil {
		return err
	}
	if err := access.RequireWrite(input.Caller, v.OwnerID); err != nil {
		return err
	}
	if err := deps.VendorStore.Delete(ctx, v.ID); err != nil {
		return err
	}

	publishChange(deps.Changes, changefeed.CollectionVendors, changefeed.OpDelete, v.OwnerID, v.ID, deps.Now())
	slog.Info("planner_event", "event", "vendor_deleted", "vendor_id", v.ID, "owner_id", v.OwnerID)
	return nil
}

// applyString copies *src into dst when src is set. Trim strips surrounding
// whitespace, used for required name-like fields.
func applyString(dst *string, src *string, trim bool) {
	if src == nil {
		return
	}
	if trim {
		*dst = strings.TrimSpace(*src)
		return
	}
	*dst = *src
}

func publishChange(p changefeed.Publisher, collection, op, ownerID, rowID string, at time.Time) {
	if p == nil {
		return
	}
	p.Publish(changefeed.Change{
		Collection: collection,
		OwnerID:    ownerID,
		Op:         op,
		RowID:      rowID,
		At:         at,
	})
}
