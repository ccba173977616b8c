package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"planner/internal/domain/audit"
)

// AuditStore defines the store interface needed to record audit events.
type AuditStore interface {
	Save(ctx context.Context, event audit.Event) error
}

// Auditor records security-relevant events. A nil *Auditor records nothing.
type Auditor struct {
	Store      AuditStore
	GenerateID func() string
	Now        func() time.Time
	IPAddress  string
}

// Record saves one event. Failures are logged and never returned: an audit
// write must not undo the action it describes.
// POST: Event persisted with category and severity derived from action
func (a *Auditor) Record(ctx context.Context, actorID, profileID string, action audit.Action, description string) {
	if a == nil || a.Store == nil {
		return
	}
	e := audit.Event{
		ID:          a.GenerateID(),
		At:          a.Now(),
		Category:    audit.CategoryFor(action),
		Action:      action,
		Severity:    audit.SeverityFor(action),
		ActorID:     actorID,
		ProfileID:   profileID,
		Description: description,
		IPAddress:   a.IPAddress,
	}
	if err := a.Store.Save(ctx, e); err != nil {
		slog.Error("audit_event", "event", "record_failed", "action", string(action), "profile_id", profileID, "error", err)
	}
}
