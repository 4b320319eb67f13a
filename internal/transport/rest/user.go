package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/user"
	"github.com/heartmarshall/roadsigns-backend/internal/transport/dataloader"
)

type userService interface {
	GetProfile(ctx context.Context) (*user.Profile, error)
	UpdateName(ctx context.Context, name string) (*user.Profile, error)
	UpdateTimezone(ctx context.Context, tz string) (*user.Profile, error)
	GetConsent(ctx context.Context) (*domain.Consent, error)
	GiveConsent(ctx context.Context, version string) (*domain.Consent, error)
	ListFavorites(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, signID string) (*user.ToggleResult, error)
}

// UserHandler serves profile, consent and favorites endpoints.
type UserHandler struct {
	svc userService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
}

type consentRequest struct {
	Version string `json:"version"`
}

type consentResponse struct {
	Given      bool      `json:"given"`
	Version    string    `json:"version"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Profile handles GET /api/me.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProfile handles PATCH /api/me. Name and timezone are both optional;
// the name is applied first.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.Name == nil && req.Timezone == nil {
		handleError(h.log, w, r, domain.NewValidationError("body", "nothing to update"))
		return
	}

	var (
		p   *user.Profile
		err error
	)
	if req.Name != nil {
		if p, err = h.svc.UpdateName(r.Context(), *req.Name); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}
	if req.Timezone != nil {
		if p, err = h.svc.UpdateTimezone(r.Context(), *req.Timezone); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, p)
}

// Consent handles GET /api/consent.
func (h *UserHandler) Consent(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetConsent(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConsentResponse(c))
}

// GiveConsent handles POST /api/consent.
func (h *UserHandler) GiveConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	c, err := h.svc.GiveConsent(r.Context(), req.Version)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConsentResponse(c))
}

// Favorites handles GET /api/favorites. Stored ids are resolved to signs
// through the request's batched loader; ids dropped from the catalogue are
// skipped.
func (h *UserHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListFavorites(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	signs, err := dataloader.LoadSigns(r.Context(), ids)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids, "signs": signs})
}

// ToggleFavorite handles POST /api/favorites/{signID}/toggle.
func (h *UserHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ToggleFavorite(r.Context(), mux.Vars(r)["signID"])
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func toConsentResponse(c *domain.Consent) consentResponse {
	return consentResponse{Given: c.Given, Version: c.Version, AcceptedAt: c.AcceptedAt}
}
