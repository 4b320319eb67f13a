package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/quiz"
)

type quizService interface {
	Start(ctx context.Context, mode quiz.Mode) (*quiz.View, error)
	SelectCategory(ctx context.Context, id, categoryID uuid.UUID) (*quiz.View, error)
	Answer(ctx context.Context, id uuid.UUID, answer domain.Answer) (*quiz.View, error)
	Next(ctx context.Context, id uuid.UUID) (*quiz.View, error)
	Finish(ctx context.Context, id uuid.UUID) (*quiz.View, error)
	Get(ctx context.Context, id uuid.UUID) (*quiz.View, error)
	Close(ctx context.Context, id uuid.UUID) error
}

// QuizHandler serves practice-test sessions.
type QuizHandler struct {
	svc quizService
	log *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(svc quizService, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{svc: svc, log: logger.With("handler", "quiz")}
}

type startQuizRequest struct {
	Mode quiz.Mode `json:"mode"`
}

type selectCategoryRequest struct {
	CategoryID uuid.UUID `json:"categoryId"`
}

type answerRequest struct {
	Answer domain.Answer `json:"answer"`
}

// Start handles POST /api/quiz.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	v, err := h.svc.Start(r.Context(), req.Mode)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Get handles GET /api/quiz/{id}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.svc.Get)
}

// SelectCategory handles POST /api/quiz/{id}/category.
func (h *QuizHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req selectCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.CategoryID == uuid.Nil {
		handleError(h.log, w, r, domain.NewValidationError("categoryId", "required"))
		return
	}
	h.withSession(w, r, func(ctx context.Context, id uuid.UUID) (*quiz.View, error) {
		return h.svc.SelectCategory(ctx, id, req.CategoryID)
	})
}

// Answer handles POST /api/quiz/{id}/answer. An empty answer is passed
// through so the session reports its own validation message.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.withSession(w, r, func(ctx context.Context, id uuid.UUID) (*quiz.View, error) {
		return h.svc.Answer(ctx, id, req.Answer)
	})
}

// Next handles POST /api/quiz/{id}/next.
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.svc.Next)
}

// Finish handles POST /api/quiz/{id}/finish.
func (h *QuizHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.svc.Finish)
}

// Close handles DELETE /api/quiz/{id}.
func (h *QuizHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.svc.Close(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuizHandler) withSession(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (*quiz.View, error)) {
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
