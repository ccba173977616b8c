package projections

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"planner/internal/domain/access"
	"planner/internal/domain/guest"
	"planner/internal/domain/profile"
	"planner/internal/domain/task"
	"planner/internal/domain/vendor"
)

// GetPlannerQuery carries input for the planner projection.
// OwnerID defaults to the caller's own profile.
type GetPlannerQuery struct {
	Caller  access.Caller
	OwnerID string
}

// GetPlannerDeps holds dependencies for the planner projection.
type GetPlannerDeps struct {
	ProfileStore ProfileReader
	TaskStore    TaskLister
	VendorStore  VendorLister
	GuestStore   GuestLister
}

// PlannerView is everything the planner screen shows for one profile.
type PlannerView struct {
	Profile  ProfileView       `json:"profile"`
	Tasks    []task.Task       `json:"tasks"`
	Phases   []task.PhaseGroup `json:"phases"`
	Progress task.Summary      `json:"progress"`
	Tier     string            `json:"tier"`
	Vendors  []vendor.Vendor   `json:"vendors"`
	Guests   []guest.Guest     `json:"guests"`
	RSVP     guest.RSVPCounts  `json:"rsvp"`
}

// QueryGetPlanner fetches a profile and its three collections concurrently and
// joins them with the derived progress, phase grouping and RSVP counts.
// PRE: Caller may read OwnerID's rows
// POST: Returns the complete view, or the first error; never a partial view
func QueryGetPlanner(ctx context.Context, query GetPlannerQuery, deps GetPlannerDeps) (PlannerView, error) {
	ownerID := query.OwnerID
	if ownerID == "" {
		ownerID = query.Caller.ProfileID
	}
	if err := access.RequireRead(query.Caller, ownerID); err != nil {
		return PlannerView{}, err
	}

	var (
		p       profile.Profile
		tasks   []task.Task
		vendors []vendor.Vendor
		guests  []guest.Guest
	)

	g := pool.New().WithContext(ctx).WithCancelOnError()
	g.Go(func(ctx context.Context) error {
		var err error
		p, err = deps.ProfileStore.GetByID(ctx, ownerID)
		return err
	})
	g.Go(func(ctx context.Context) error {
		var err error
		tasks, err = deps.TaskStore.ListByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		return nil
	})
	g.Go(func(ctx context.Context) error {
		var err error
		vendors, err = deps.VendorStore.ListByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list vendors: %w", err)
		}
		return nil
	})
	g.Go(func(ctx context.Context) error {
		var err error
		guests, err = deps.GuestStore.ListByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list guests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return PlannerView{}, err
	}

	if tasks == nil {
		tasks = []task.Task{}
	}
	if vendors == nil {
		vendors = []vendor.Vendor{}
	}
	if guests == nil {
		guests = []guest.Guest{}
	}

	summary := task.SummarizeTasks(tasks)
	return PlannerView{
		Profile:  NewProfileView(p),
		Tasks:    tasks,
		Phases:   task.GroupByPhase(tasks),
		Progress: summary,
		Tier:     task.TierFor(summary.Percentage),
		Vendors:  vendors,
		Guests:   guests,
		RSVP:     guest.CountRSVP(guests),
	}, nil
}
