package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"planner/internal/adapters/changefeed"
	"planner/internal/adapters/email"
	"planner/internal/adapters/storage"
	"planner/internal/domain/guest"
	"planner/internal/domain/profile"
	"planner/internal/domain/task"
	"planner/internal/domain/vendor"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// seqID returns a generator of deterministic ids: "<prefix>-1", "<prefix>-2", ...
func seqID(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// --- Profile store ---

type mockProfileStore struct {
	profiles map[string]profile.Profile
	tokens   map[string]profile.ResetToken
	deleted  []string
	saveErr  error
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{
		profiles: make(map[string]profile.Profile),
		tokens:   make(map[string]profile.ResetToken),
	}
}

func (m *mockProfileStore) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (m *mockProfileStore) GetByEmail(_ context.Context, email string) (profile.Profile, error) {
	for _, p := range m.profiles {
		if p.Email == profile.NormalizeEmail(email) {
			return p, nil
		}
	}
	return profile.Profile{}, fmt.Errorf("profile: %w", storage.ErrNotFound)
}

func (m *mockProfileStore) Save(_ context.Context, p profile.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if existing, ok := m.profiles[p.ID]; ok {
		p.IsAdmin = existing.IsAdmin
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *mockProfileStore) Delete(_ context.Context, id string) error {
	delete(m.profiles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockProfileStore) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	p, ok := m.profiles[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.IsAdmin = isAdmin
	m.profiles[id] = p
	return nil
}

func (m *mockProfileStore) SaveResetToken(_ context.Context, t profile.ResetToken) error {
	m.tokens[t.Token] = t
	return nil
}

func (m *mockProfileStore) GetResetTokenByToken(_ context.Context, token string) (profile.ResetToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return profile.ResetToken{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *mockProfileStore) InvalidateResetTokens(_ context.Context, profileID string) error {
	for k, t := range m.tokens {
		if t.ProfileID == profileID {
			t.Used = true
			m.tokens[k] = t
		}
	}
	return nil
}

func (m *mockProfileStore) DeleteStaleResetTokens(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for k, t := range m.tokens {
		if t.ExpiresAt.Before(before) || (t.Used && t.CreatedAt.Before(before)) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- Task store ---

type mockTaskStore struct {
	tasks     []task.Task
	insertErr error
}

func (m *mockTaskStore) CountByOwner(_ context.Context, ownerID string) (int, error) {
	n := 0
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *mockTaskStore) InsertBatch(_ context.Context, tasks []task.Task) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.tasks = append(m.tasks, tasks...)
	return nil
}

func (m *mockTaskStore) GetByID(_ context.Context, id string) (task.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
}

func (m *mockTaskStore) SetCompleted(_ context.Context, id string, completed bool) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = completed
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Vendor and guest stores ---

type mockVendorStore struct {
	vendors map[string]vendor.Vendor
}

func newMockVendorStore() *mockVendorStore {
	return &mockVendorStore{vendors: make(map[string]vendor.Vendor)}
}

func (m *mockVendorStore) GetByID(_ context.Context, id string) (vendor.Vendor, error) {
	v, ok := m.vendors[id]
	if !ok {
		return vendor.Vendor{}, fmt.Errorf("vendor %s: %w", id, storage.ErrNotFound)
	}
	return v, nil
}

func (m *mockVendorStore) Save(_ context.Context, v vendor.Vendor) error {
	m.vendors[v.ID] = v
	return nil
}

func (m *mockVendorStore) Delete(_ context.Context, id string) error {
	if _, ok := m.vendors[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.vendors, id)
	return nil
}

type mockGuestStore struct {
	guests map[string]guest.Guest
}

func newMockGuestStore() *mockGuestStore {
	return &mockGuestStore{guests: make(map[string]guest.Guest)}
}

func (m *mockGuestStore) GetByID(_ context.Context, id string) (guest.Guest, error) {
	g, ok := m.guests[id]
	if !ok {
		return guest.Guest{}, fmt.Errorf("guest %s: %w", id, storage.ErrNotFound)
	}
	return g, nil
}

func (m *mockGuestStore) Save(_ context.Context, g guest.Guest) error {
	m.guests[g.ID] = g
	return nil
}

func (m *mockGuestStore) Delete(_ context.Context, id string) error {
	if _, ok := m.guests[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.guests, id)
	return nil
}

// --- Change feed and email ---

type recordingPublisher struct {
	mu      sync.Mutex
	changes []changefeed.Change
}

func (r *recordingPublisher) Publish(c changefeed.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

type failingSender struct{}

func (failingSender) Send(context.Context, email.SendRequest) (email.SendResult, error) {
	return email.SendResult{}, errors.New("smtp down")
}
