package projections

import (
	"context"
	"log/slog"

	"planner/internal/domain/access"
)

// View names the top-level screen a visitor should see.
type View string

const (
	ViewAuth    View = "auth"
	ViewAdmin   View = "admin"
	ViewPlanner View = "planner"
)

// ResolveView picks the screen: no session shows the auth form, admins get the
// dashboard, everyone else the planner.
func ResolveView(hasSession, isAdmin bool) View {
	switch {
	case !hasSession:
		return ViewAuth
	case isAdmin:
		return ViewAdmin
	default:
		return ViewPlanner
	}
}

// GetViewDeps holds dependencies for QueryGetView.
type GetViewDeps struct {
	ProfileStore ProfileReader
}

// QueryGetView resolves the view from the stored profile rather than the session,
// so admin grants and revocations apply without signing in again.
// A session whose profile no longer exists resolves to the auth view.
func QueryGetView(ctx context.Context, caller access.Caller, deps GetViewDeps) View {
	if caller.Anonymous() {
		return ViewAuth
	}
	p, err := deps.ProfileStore.GetByID(ctx, caller.ProfileID)
	if err != nil {
		slog.Info("auth_event", "event", "view_profile_missing", "profile_id", caller.ProfileID, "error", err)
		return ViewAuth
	}
	return ResolveView(true, p.IsAdmin)
}
