package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

const probeTimeout = 3 * time.Second

// Pinger is a dependency the health endpoints probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check names a probed dependency. Optional checks report "degraded"
// instead of failing readiness.
type Check struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	checks  []Check
	version string
	clock   clockwork.Clock
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(version string, clock clockwork.Clock, checks ...Check) *HealthHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HealthHandler{checks: checks, version: version, clock: clock}
}

// HealthResponse is the JSON response for /health and /ready.
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

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.clock.Now(),
	})
}

// Ready is the readiness probe: 200 when every required dependency answers.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status, _ := h.probe(r.Context())
	code := http.StatusOK
	if status == "down" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{Status: status, Timestamp: h.clock.Now()})
}

// Health is the full health check with per-component latency and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, components := h.probe(r.Context())
	code := http.StatusOK
	if status == "down" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:     status,
		Version:    h.version,
		Components: components,
		Timestamp:  h.clock.Now(),
	})
}

func (h *HealthHandler) probe(ctx context.Context) (string, map[string]CompStatus) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	overall := "ok"
	components := make(map[string]CompStatus, len(h.checks))
	for _, c := range h.checks {
		start := h.clock.Now()
		err := c.Pinger.Ping(ctx)
		latency := h.clock.Since(start)

		switch {
		case err == nil:
			components[c.Name] = CompStatus{Status: "ok", Latency: latency.String()}
		case c.Optional:
			components[c.Name] = CompStatus{Status: "down"}
			if overall == "ok" {
				overall = "degraded"
			}
		default:
			components[c.Name] = CompStatus{Status: "down"}
			overall = "down"
		}
	}
	return overall, components
}
