package projections

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"planner/internal/adapters/storage"
	profileStore "planner/internal/adapters/storage/profile"
	"planner/internal/domain/guest"
	"planner/internal/domain/profile"
	"planner/internal/domain/task"
	"planner/internal/domain/vendor"
)

type mockProfiles struct {
	profiles map[string]profile.Profile
	listErr  error
}

func (m *mockProfiles) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (m *mockProfiles) List(_ context.Context, _ profileStore.ListFilter) ([]profile.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]profile.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type mockTasks struct {
	tasks []task.Task
	err   error
}

func (m *mockTasks) ListByOwner(_ context.Context, ownerID string) ([]task.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []task.Task
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTasks) SummaryByOwner(_ context.Context) (map[string]task.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := map[string][2]int{}
	for _, t := range m.tasks {
		c := counts[t.OwnerID]
		c[0]++
		if t.Completed {
			c[1]++
		}
		counts[t.OwnerID] = c
	}
	out := make(map[string]task.Summary, len(counts))
	for owner, c := range counts {
		out[owner] = task.Summarize(c[1], c[0])
	}
	return out, nil
}

type mockVendors struct{ vendors []vendor.Vendor }

func (m *mockVendors) ListByOwner(_ context.Context, ownerID string) ([]vendor.Vendor, error) {
	var out []vendor.Vendor
	for _, v := range m.vendors {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

type mockGuests struct {
	guests []guest.Guest
	err    error
}

func (m *mockGuests) ListByOwner(_ context.Context, ownerID string) ([]guest.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []guest.Guest
	for _, g := range m.guests {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")

// tasksFor builds n tasks for owner, the first done of which are completed.
func tasksFor(owner string, n, done int) []task.Task {
	out := make([]task.Task, n)
	for i := range out {
		out[i] = task.Task{
			ID:        fmt.Sprintf("%s-t%d", owner, i),
			OwnerID:   owner,
			Name:      fmt.Sprintf("task %d", i),
			Phase:     task.Phases[i%len(task.Phases)],
			Completed: i < done,
		}
	}
	return out
}
