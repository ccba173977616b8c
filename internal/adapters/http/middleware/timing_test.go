package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planner/internal/adapters/http/perf"
)

func TestTimingMiddleware_RecordsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(time.Second, collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/vendors/7f1c2d34-5e6f-4a8b-9c0d-1e2f3a4b5c6d", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.Requests != 1 {
		t.Fatalf("requests = %d, want 1", snap.Requests)
	}
	if got := snap.SlowestRoutes[0].Label; got != "GET /api/vendors/{id}" {
		t.Errorf("label = %q", got)
	}
}

func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(time.Second, collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/app.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 (static excluded)", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestTimingMiddleware_NilCollector(t *testing.T) {
	handler := Timing(0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/tasks", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestTimingMiddleware_PassesFlush(t *testing.T) {
	handler := Timing(time.Second, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := http.NewResponseController(w).Flush(); err != nil {
			t.Errorf("Flush through wrapper: %v", err)
		}
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/changes", nil))
	if !rr.Flushed {
		t.Error("underlying recorder was not flushed")
	}
}

func TestRouteLabel(t *testing.T) {
	const id = "7f1c2d34-5e6f-4a8b-9c0d-1e2f3a4b5c6d"
	tests := []struct{ in, want string }{
		{"/api/tasks", "/api/tasks"},
		{"/api/guests/" + id, "/api/guests/{id}"},
		{"/api/admin/profiles/" + id + "/progress", "/api/admin/profiles/{id}/progress"},
		{"/api/guests/not-a-uuid", "/api/guests/not-a-uuid"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.in); got != tt.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
