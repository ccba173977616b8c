package projections

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	profileStore "planner/internal/adapters/storage/profile"
	"planner/internal/application/listutil"
	"planner/internal/domain/access"
	"planner/internal/domain/profile"
	"planner/internal/domain/task"
)

// GetAdminDashboardQuery carries input for the admin dashboard projection.
// A zero Page returns every profile.
type GetAdminDashboardQuery struct {
	Caller access.Caller
	Page   listutil.PageParams
}

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	ProfileStore ProfileLister
	TaskStore    TaskSummarizer
}

// AdminProfileRow is one profile on the admin dashboard.
type AdminProfileRow struct {
	Profile  ProfileView  `json:"profile"`
	Progress task.Summary `json:"progress"`
	Tier     string       `json:"tier"`
}

// AdminDashboard is the admin overview: profiles newest first, plus aggregates.
// Stats always cover every profile, whichever page is shown.
type AdminDashboard struct {
	Profiles []AdminProfileRow `json:"profiles"`
	Stats    AdminStats        `json:"stats"`
	Page     listutil.PageInfo `json:"page"`
}

// QueryGetAdminDashboard lists every profile with its progress summary.
// PRE: Caller is an admin
// POST: Profiles are ordered by creation time descending; profiles without tasks show 0%
func QueryGetAdminDashboard(ctx context.Context, query GetAdminDashboardQuery, deps GetAdminDashboardDeps) (AdminDashboard, error) {
	if err := access.RequireAdmin(query.Caller); err != nil {
		return AdminDashboard{}, err
	}

	var (
		profiles  []profile.Profile
		summaries map[string]task.Summary
	)
	g := pool.New().WithContext(ctx).WithCancelOnError()
	g.Go(func(ctx context.Context) error {
		var err error
		profiles, err = deps.ProfileStore.List(ctx, profileStore.ListFilter{})
		return err
	})
	g.Go(func(ctx context.Context) error {
		var err error
		summaries, err = deps.TaskStore.SummaryByOwner(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminDashboard{}, err
	}

	rows := make([]AdminProfileRow, 0, len(profiles))
	percentages := make([]int, 0, len(profiles))
	for _, p := range profiles {
		s := summaries[p.ID]
		rows = append(rows, AdminProfileRow{
			Profile:  NewProfileView(p),
			Progress: s,
			Tier:     task.TierFor(s.Percentage),
		})
		percentages = append(percentages, s.Percentage)
	}

	perPage := query.Page.PerPage
	if !query.Page.Enabled() {
		perPage = max(len(rows), 1)
	}
	info := listutil.NewPageInfo(query.Page.Page, perPage, len(rows))

	return AdminDashboard{
		Profiles: listutil.Window(rows, info),
		Stats:    ComputeAdminStats(percentages),
		Page:     info,
	}, nil
}

// GetProfileProgressQuery carries input for the per-profile progress projection.
type GetProfileProgressQuery struct {
	Caller    access.Caller
	ProfileID string
}

// GetProfileProgressDeps holds dependencies for the per-profile progress projection.
type GetProfileProgressDeps struct {
	ProfileStore ProfileReader
	TaskStore    TaskLister
}

// QueryGetProfileProgress returns one profile's progress summary.
// PRE: Caller is an admin
// POST: Returns an error wrapping storage.ErrNotFound for unknown profiles
func QueryGetProfileProgress(ctx context.Context, query GetProfileProgressQuery, deps GetProfileProgressDeps) (AdminProfileRow, error) {
	if err := access.RequireAdmin(query.Caller); err != nil {
		return AdminProfileRow{}, err
	}

	p, err := deps.ProfileStore.GetByID(ctx, query.ProfileID)
	if err != nil {
		return AdminProfileRow{}, err
	}
	tasks, err := deps.TaskStore.ListByOwner(ctx, p.ID)
	if err != nil {
		return AdminProfileRow{}, err
	}

	s := task.SummarizeTasks(tasks)
	return AdminProfileRow{Profile: NewProfileView(p), Progress: s, Tier: task.TierFor(s.Percentage)}, nil
}
