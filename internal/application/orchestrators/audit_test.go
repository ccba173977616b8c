package orchestrators

import (
	"context"
	"errors"
	"testing"

	"planner/internal/domain/audit"
	"planner/internal/domain/profile"
)

type mockAuditStore struct {
	events []audit.Event
	err    error
}

func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func newTestAuditor(store AuditStore) *Auditor {
	return &Auditor{Store: store, GenerateID: seqID("a"), Now: testNow, IPAddress: "10.0.0.7"}
}

func TestAuditor_NilRecordsNothing(t *testing.T) {
	var a *Auditor
	a.Record(context.Background(), "p1", "p1", audit.ActionPasswordChanged, "noop")
}

func TestAuditor_StoreFailureIsSwallowed(t *testing.T) {
	a := newTestAuditor(&mockAuditStore{err: errors.New("disk full")})
	a.Record(context.Background(), "p1", "p1", audit.ActionPasswordChanged, "changed")
}

func TestExecuteLogin_RecordsLockout(t *testing.T) {
	ps := newMockProfileStore()
	seedLoginProfile(t, ps)
	as := &mockAuditStore{}
	deps := LoginDeps{ProfileStore: ps, Now: testNow, Audit: newTestAuditor(as)}
	bad := LoginInput{Email: "a@example.com", Password: "wrong password!"}

	for i := 0; i < profile.MaxFailedLogins+1; i++ {
		_, _ = ExecuteLogin(context.Background(), bad, deps)
	}
	if len(as.events) != 1 {
		t.Fatalf("events = %d, want exactly one lockout", len(as.events))
	}
	e := as.events[0]
	if e.Action != audit.ActionLoginLocked || e.Severity != audit.SeverityWarning || e.ProfileID != "p1" || e.IPAddress != "10.0.0.7" {
		t.Errorf("event = %+v", e)
	}
	if !e.At.Equal(testTime) || e.ID != "a-1" {
		t.Errorf("event stamp = %s %v", e.ID, e.At)
	}
}

func TestExecuteSignUp_RecordsProfileCreated(t *testing.T) {
	ps, ts, as := newMockProfileStore(), &mockTaskStore{}, &mockAuditStore{}
	deps := signUpDeps(ps, ts)
	deps.Audit = newTestAuditor(as)

	p, err := ExecuteSignUp(context.Background(), SignUpInput{
		Email: "ana@example.com", Password: testPassword, CoupleName: "Ana & Ben", WeddingDate: "2027-06-12",
	}, deps)
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if len(as.events) != 1 || as.events[0].Action != audit.ActionProfileCreated || as.events[0].ActorID != p.ID {
		t.Errorf("events = %+v", as.events)
	}
}

func TestExecuteChangePassword_RecordsEvent(t *testing.T) {
	ps, as := newMockProfileStore(), &mockAuditStore{}
	seedLoginProfile(t, ps)
	deps := ChangePasswordDeps{ProfileStore: ps, Audit: newTestAuditor(as)}

	if err := ExecuteChangePassword(context.Background(), ChangePasswordInput{ProfileID: "p1", CurrentPassword: "nope", NewPassword: "another passphrase"}, deps); err == nil {
		t.Fatal("wrong current password should fail")
	}
	if len(as.events) != 0 {
		t.Fatal("a failed change must not be recorded")
	}
	if err := ExecuteChangePassword(context.Background(), ChangePasswordInput{ProfileID: "p1", CurrentPassword: testPassword, NewPassword: "another passphrase"}, deps); err != nil {
		t.Fatalf("change: %v", err)
	}
	if len(as.events) != 1 || as.events[0].Category != audit.CategorySecurity {
		t.Errorf("events = %+v", as.events)
	}
}
