package projections

import (
	"context"

	profileStore "planner/internal/adapters/storage/profile"
	domainGuest "planner/internal/domain/guest"
	domainProfile "planner/internal/domain/profile"
	domainTask "planner/internal/domain/task"
	domainVendor "planner/internal/domain/vendor"
)

// ProfileReader interface for single-profile lookups.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (domainProfile.Profile, error)
}

// ProfileLister interface for the admin profile listing.
type ProfileLister interface {
	List(ctx context.Context, filter profileStore.ListFilter) ([]domainProfile.Profile, error)
}

// TaskLister interface for per-owner task queries.
type TaskLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domainTask.Task, error)
}

// TaskSummarizer interface for progress across every owner.
type TaskSummarizer interface {
	SummaryByOwner(ctx context.Context) (map[string]domainTask.Summary, error)
}

// VendorLister interface for per-owner vendor queries.
type VendorLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domainVendor.Vendor, error)
}

// GuestLister interface for per-owner guest queries.
type GuestLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domainGuest.Guest, error)
}
