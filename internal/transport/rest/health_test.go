package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerStub struct{ err error }

func (p pingerStub) Ping(context.Context) error { return p.err }

var errRefused = errors.New("connection refused")

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestLive_IgnoresDependencies(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	h := NewHealthHandler("v1", clockwork.NewFakeClockAt(now), Check{Name: "database", Pinger: pingerStub{errRefused}})

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Timestamp.Equal(now))
	assert.Empty(t, resp.Components)
}

func TestProbes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     []Check
		wantStatus int
		wantState  string
		wantComp   map[string]string
	}{
		{
			name:       "all up",
			checks:     []Check{{Name: "database", Pinger: pingerStub{}}, {Name: "kv", Pinger: pingerStub{}, Optional: true}},
			wantStatus: http.StatusOK,
			wantState:  "ok",
			wantComp:   map[string]string{"database": "ok", "kv": "ok"},
		},
		{
			name:       "database down",
			checks:     []Check{{Name: "database", Pinger: pingerStub{errRefused}}, {Name: "kv", Pinger: pingerStub{}, Optional: true}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "down",
			wantComp:   map[string]string{"database": "down", "kv": "ok"},
		},
		{
			name:       "kv down degrades only",
			checks:     []Check{{Name: "database", Pinger: pingerStub{}}, {Name: "kv", Pinger: pingerStub{errRefused}, Optional: true}},
			wantStatus: http.StatusOK,
			wantState:  "degraded",
			wantComp:   map[string]string{"database": "ok", "kv": "down"},
		},
		{
			name:       "required failure wins over degraded",
			checks:     []Check{{Name: "kv", Pinger: pingerStub{errRefused}, Optional: true}, {Name: "database", Pinger: pingerStub{errRefused}}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "down",
			wantComp:   map[string]string{"database": "down", "kv": "down"},
		},
		{
			name:       "memory kv has no checks",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantState:  "ok",
			wantComp:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHealthHandler("v1.2.0 (abc123)", nil, tt.checks...)

			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code, "ready")
			ready := decodeHealth(t, rec)
			assert.Equal(t, tt.wantState, ready.Status, "ready")
			assert.Empty(t, ready.Components, "ready does not list components")

			rec = httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantStatus, rec.Code, "health")
			health := decodeHealth(t, rec)
			assert.Equal(t, tt.wantState, health.Status)
			assert.Equal(t, "v1.2.0 (abc123)", health.Version)

			got := make(map[string]string, len(health.Components))
			for name, c := range health.Components {
				got[name] = c.Status
				if c.Status == "ok" {
					assert.NotEmpty(t, c.Latency, "%s latency", name)
				}
			}
			assert.Equal(t, tt.wantComp, got)
		})
	}
}
