package handlers

import (
	"net/http"
	"time"
)

// HealthHandlers answers liveness and readiness probes.
type HealthHandlers struct {
	startedAt time.Time
	ready     func() bool
}

// NewHealthHandlers constructs health handlers. The ready func reports
// whether the catalog and translations have been loaded; nil means always
// ready.
func NewHealthHandlers(ready func() bool) *HealthHandlers {
	return &HealthHandlers{
		startedAt: time.Now().UTC(),
		ready:     ready,
	}
}

// Healthz responds with a simple status payload for liveness monitoring.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readyz reports whether the service can serve catalog traffic.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]any{"status": "loading"})
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "ready"})
}
