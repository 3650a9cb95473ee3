package rest

import (
	"context"
	"net/http"
	"time"
)

// pinger is the minimal interface for component health checks.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      pinger
	cache   pinger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db, cache pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, version: version}
}

// HealthResponse is the JSON response for /health.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Health pings the database and cache with latency measurement. The cache
// being down degrades reads but does not break them, so only a database
// failure makes the overall status "down".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		components["database"] = CompStatus{Status: "down"}
		overallStatus = "down"
	} else {
		components["database"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	start = time.Now()
	if err := h.cache.Ping(ctx); err != nil {
		components["cache"] = CompStatus{Status: "down"}
	} else {
		components["cache"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
