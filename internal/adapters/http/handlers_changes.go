package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"planner/internal/adapters/changefeed"
	"planner/internal/adapters/http/middleware"
)

// heartbeatInterval keeps idle change streams from being closed by proxies.
var heartbeatInterval = 25 * time.Second

// handleAPIChanges handles GET /api/changes: a Server-Sent Events stream of row
// changes visible to the caller. Each event names the collection to re-fetch.
// Admins (by stored flag) receive every owner's changes. An all-owner stream
// ends once the flag is revoked; the client reconnects to its own stream.
func handleAPIChanges(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	p, err := stores.ProfileStore.GetByID(r.Context(), session.ProfileID)
	if err != nil {
		writeError(w, err)
		return
	}

	var sub *changefeed.Subscription
	if p.IsAdmin {
		sub = changes.SubscribeAll()
	} else {
		sub = changes.Subscribe(p.ID)
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The server's write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		slog.Warn("change_event", "event", "stream_unflushable", "error", err)
		return
	}
	slog.Debug("change_event", "event", "stream_opened", "profile_id", p.ID, "all", p.IsAdmin)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("change_event", "event", "stream_closed", "profile_id", p.ID)
			return
		case <-streamStop:
			return
		case <-heartbeat.C:
			if p.IsAdmin && adminRevoked(r.Context(), p.ID) {
				return
			}
			fmt.Fprint(w, ": ping\n\n")
		case c, ok := <-sub.C():
			if !ok {
				return
			}
			if p.IsAdmin && c.OwnerID != p.ID && adminRevoked(r.Context(), p.ID) {
				return
			}
			data, err := json.Marshal(c)
			if err != nil {
				slog.Error("change_event", "event", "encode_failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", c.Collection, data)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// adminRevoked re-reads the stored admin flag for an all-owner stream.
func adminRevoked(ctx context.Context, profileID string) bool {
	p, err := stores.ProfileStore.GetByID(ctx, profileID)
	if err == nil && p.IsAdmin {
		return false
	}
	slog.Info("change_event", "event", "stream_revoked", "profile_id", profileID, "error", err)
	return true
}
