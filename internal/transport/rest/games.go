package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/service/games"
)

type gameManager interface {
	Start(ctx context.Context, kind games.Kind) (*games.View, error)
	Submit(ctx context.Context, id uuid.UUID, a games.Answer) (*games.View, error)
	NextLevel(ctx context.Context, id uuid.UUID) (*games.View, error)
	Restart(ctx context.Context, id uuid.UUID) (*games.View, error)
	Get(ctx context.Context, id uuid.UUID) (*games.View, error)
	Close(ctx context.Context, id uuid.UUID) error
}

// GamesHandler serves mini-game sessions.
type GamesHandler struct {
	mgr gameManager
	log *slog.Logger
}

// NewGamesHandler creates a GamesHandler.
func NewGamesHandler(mgr gameManager, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{mgr: mgr, log: logger.With("handler", "games")}
}

type startGameRequest struct {
	Kind games.Kind `json:"kind"`
}

// Start handles POST /api/games.
func (h *GamesHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	v, err := h.mgr.Start(r.Context(), req.Kind)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Get handles GET /api/games/{id}.
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.mgr.Get)
}

// Submit handles POST /api/games/{id}/submit. The body carries the field
// that matches the game kind: cardId, option, signId or value.
func (h *GamesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var a games.Answer
	if err := decodeJSON(w, r, &a); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.withSession(w, r, func(ctx context.Context, id uuid.UUID) (*games.View, error) {
		return h.mgr.Submit(ctx, id, a)
	})
}

// NextLevel handles POST /api/games/{id}/next-level.
func (h *GamesHandler) NextLevel(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.mgr.NextLevel)
}

// Restart handles POST /api/games/{id}/restart.
func (h *GamesHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.mgr.Restart)
}

// Close handles DELETE /api/games/{id}.
func (h *GamesHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.mgr.Close(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GamesHandler) withSession(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (*games.View, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	v, err := op(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
