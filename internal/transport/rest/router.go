package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/transport/dataloader"
	"github.com/heartmarshall/roadsigns-backend/internal/transport/middleware"
)

type signBatcher interface {
	SignsByIDs(ctx context.Context, ids []string) ([]domain.TrafficSign, error)
}

// Handlers groups every REST handler the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	User     *UserHandler
	Catalog  *CatalogHandler
	Progress *ProgressHandler
	Quiz     *QuizHandler
	Games    *GamesHandler
}

// NewRouter builds the route table. Routes under /api require an
// authenticated user; cross-cutting middleware is applied by the caller.
func NewRouter(h Handlers, signs signBatcher) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	r.MethodNotAllowedHandler = methodNotAllowed

	r.HandleFunc("/live", h.Health.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Auth.LoginWithPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	// Static paths are registered before /signs/{id} so they win the match.
	r.HandleFunc("/signs", h.Catalog.ListSigns).Methods(http.MethodGet)
	r.HandleFunc("/signs/search", h.Catalog.Search).Methods(http.MethodGet)
	r.HandleFunc("/signs/random", h.Catalog.Random).Methods(http.MethodGet)
	r.HandleFunc("/signs/{id}", h.Catalog.GetSign).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.Catalog.Categories).Methods(http.MethodGet)
	r.HandleFunc("/questions", h.Catalog.Questions).Methods(http.MethodGet)
	r.HandleFunc("/badges", h.Progress.Badges).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	// Subrouters do not inherit the parent's 405 handler.
	api.MethodNotAllowedHandler = methodNotAllowed
	api.Use(middleware.RequireAuth, dataloader.Middleware(signs))

	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	api.HandleFunc("/me", h.User.Profile).Methods(http.MethodGet)
	api.HandleFunc("/me", h.User.UpdateProfile).Methods(http.MethodPatch)
	api.HandleFunc("/consent", h.User.Consent).Methods(http.MethodGet)
	api.HandleFunc("/consent", h.User.GiveConsent).Methods(http.MethodPost)
	api.HandleFunc("/favorites", h.User.Favorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{signID}/toggle", h.User.ToggleFavorite).Methods(http.MethodPost)

	api.HandleFunc("/signs/{id}/learned", h.Progress.MarkLearned).Methods(http.MethodPost)
	api.HandleFunc("/progress", h.Progress.Progress).Methods(http.MethodGet)
	api.HandleFunc("/progress/snapshot", h.Progress.Snapshot).Methods(http.MethodGet)
	api.HandleFunc("/progress/daily-goal", h.Progress.DailyGoal).Methods(http.MethodGet)
	api.HandleFunc("/activity", h.Progress.Activity).Methods(http.MethodGet)

	api.HandleFunc("/quiz", h.Quiz.Start).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{id}", h.Quiz.Get).Methods(http.MethodGet)
	api.HandleFunc("/quiz/{id}", h.Quiz.Close).Methods(http.MethodDelete)
	api.HandleFunc("/quiz/{id}/category", h.Quiz.SelectCategory).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{id}/answer", h.Quiz.Answer).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{id}/next", h.Quiz.Next).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{id}/finish", h.Quiz.Finish).Methods(http.MethodPost)

	api.HandleFunc("/games", h.Games.Start).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", h.Games.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", h.Games.Close).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/submit", h.Games.Submit).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/next-level", h.Games.NextLevel).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/restart", h.Games.Restart).Methods(http.MethodPost)

	return r
}
