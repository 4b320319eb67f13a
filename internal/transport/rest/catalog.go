package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/catalog"
)

type catalogService interface {
	ListSigns(ctx context.Context) ([]domain.TrafficSign, error)
	GetSign(ctx context.Context, id string) (*domain.TrafficSign, error)
	SearchSigns(ctx context.Context, q string) (*catalog.SearchResult, error)
	RandomSigns(ctx context.Context, n int) ([]domain.TrafficSign, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListQuestions(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error)
}

// CatalogHandler serves the public sign catalogue.
type CatalogHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: logger.With("handler", "catalog")}
}

// ListSigns handles GET /signs.
func (h *CatalogHandler) ListSigns(w http.ResponseWriter, r *http.Request) {
	signs, err := h.svc.ListSigns(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signs)
}

// Search handles GET /signs/search?q=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SearchSigns(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Random handles GET /signs/random?count=.
func (h *CatalogHandler) Random(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "count", 1)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	signs, err := h.svc.RandomSigns(r.Context(), n)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signs)
}

// GetSign handles GET /signs/{id}.
func (h *CatalogHandler) GetSign(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Categories handles GET /categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Questions handles GET /questions?categoryId=.
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("categoryId", "must be a valid UUID"))
			return
		}
		categoryID = &id
	}
	qs, err := h.svc.ListQuestions(r.Context(), categoryID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}
