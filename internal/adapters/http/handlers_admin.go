package web

import (
	"net/http"
	"strconv"
	"time"

	"planner/internal/adapters/http/middleware"
	auditStore "planner/internal/adapters/storage/audit"
	"planner/internal/application/listutil"
	"planner/internal/application/projections"
	"planner/internal/domain/access"
	"planner/internal/domain/audit"
)

// requireAdmin re-reads is_admin from the profile so grants and revocations made
// with plannerctl apply to live sessions. The refreshed flag is put back in context.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.GetSessionFromContext(r.Context())
		if !ok {
			middleware.WriteJSONError(w, http.StatusUnauthorized, access.ErrUnauthenticated.Error())
			return
		}
		p, err := stores.ProfileStore.GetByID(r.Context(), session.ProfileID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !p.IsAdmin {
			middleware.WriteJSONError(w, http.StatusForbidden, access.ErrForbidden.Error())
			return
		}
		session.IsAdmin = true
		next.ServeHTTP(w, r.WithContext(middleware.ContextWithSession(r.Context(), session)))
	})
}

func adminDashboardDeps() projections.GetAdminDashboardDeps {
	return projections.GetAdminDashboardDeps{ProfileStore: stores.ProfileStore, TaskStore: stores.TaskStore}
}

// handleAPIAdminProfiles handles GET /api/admin/profiles.
// Every profile is returned unless page or per_page is given.
func handleAPIAdminProfiles(w http.ResponseWriter, r *http.Request) {
	dash, err := projections.QueryGetAdminDashboard(r.Context(), projections.GetAdminDashboardQuery{
		Caller: middleware.CallerFromContext(r.Context()),
		Page:   listutil.ParseOptionalPageParams(r.URL.Query()),
	}, adminDashboardDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// handleAPIAdminProfileProgress handles GET /api/admin/profiles/{id}/progress.
func handleAPIAdminProfileProgress(w http.ResponseWriter, r *http.Request) {
	row, err := projections.QueryGetProfileProgress(r.Context(), projections.GetProfileProgressQuery{
		Caller:    middleware.CallerFromContext(r.Context()),
		ProfileID: r.PathValue("id"),
	}, projections.GetProfileProgressDeps{ProfileStore: stores.ProfileStore, TaskStore: stores.TaskStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// handleAPIAdminProfilePlanner handles GET /api/admin/profiles/{id}/planner: a read-only
// view of another couple's planner.
func handleAPIAdminProfilePlanner(w http.ResponseWriter, r *http.Request) {
	view, err := projections.QueryGetPlanner(r.Context(), projections.GetPlannerQuery{
		Caller:  middleware.CallerFromContext(r.Context()),
		OwnerID: r.PathValue("id"),
	}, plannerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleAPIAdminPerf handles GET /api/admin/perf?minutes=N: request and query latency
// over the last N minutes (default 60).
func handleAPIAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		middleware.WriteJSONError(w, http.StatusNotFound, "latency collection is disabled")
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 10))
}

// maxAuditLimit caps GET /api/admin/audit.
const maxAuditLimit = 1000

// handleAPIAdminAudit handles GET /api/admin/audit?profile_id=&category=&limit=, newest first.
func handleAPIAdminAudit(w http.ResponseWriter, r *http.Request) {
	if stores.AuditStore == nil {
		middleware.WriteJSONError(w, http.StatusNotFound, "audit trail is disabled")
		return
	}
	q := r.URL.Query()
	filter := auditStore.Filter{
		ProfileID: q.Get("profile_id"),
		Category:  audit.Category(q.Get("category")),
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= maxAuditLimit {
		filter.Limit = l
	}
	events, err := stores.AuditStore.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
