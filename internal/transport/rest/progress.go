package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/progress"
)

type progressService interface {
	Compute(ctx context.Context) progress.Result
	Snapshot(ctx context.Context) (*domain.ProgressSnapshot, error)
	DailyGoal(ctx context.Context) (*progress.DailyGoal, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error)
	MarkLearned(ctx context.Context, signID string, dedupeToday bool) (bool, error)
}

// ProgressHandler serves learning progress endpoints.
type ProgressHandler struct {
	svc progressService
	log *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(svc progressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, log: logger.With("handler", "progress")}
}

type snapshotResponse struct {
	domain.Counters
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type activityResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Details   *string   `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Progress handles GET /api/progress.
func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Compute(r.Context()))
}

// Snapshot handles GET /api/progress/snapshot.
func (h *ProgressHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	resp := snapshotResponse{Counters: snap.Counters}
	if !snap.UpdatedAt.IsZero() {
		resp.UpdatedAt = &snap.UpdatedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// DailyGoal handles GET /api/progress/daily-goal.
func (h *ProgressHandler) DailyGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.svc.DailyGoal(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// Activity handles GET /api/activity?limit=.
func (h *ProgressHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	events, err := h.svc.RecentActivity(r.Context(), limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]activityResponse, 0, len(events))
	for _, e := range events {
		out = append(out, activityResponse{
			ID:        e.ID.String(),
			Type:      string(e.Type),
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// MarkLearned handles POST /api/signs/{id}/learned?dedupe=. Dedupe is on
// unless the caller turns it off.
func (h *ProgressHandler) MarkLearned(w http.ResponseWriter, r *http.Request) {
	dedupe, err := queryBool(r, "dedupe", true)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	recorded, err := h.svc.MarkLearned(r.Context(), mux.Vars(r)["id"], dedupe)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	status := http.StatusOK
	if recorded {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"recorded": recorded})
}

// Badges handles GET /badges, the static achievement catalogue.
func (h *ProgressHandler) Badges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, progress.Catalogue())
}
