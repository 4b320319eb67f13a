package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/category"
	progressrepo "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/progress"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/question"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/sign"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/roadsigns-backend/internal/auth"
	"github.com/heartmarshall/roadsigns-backend/internal/config"
	authsvc "github.com/heartmarshall/roadsigns-backend/internal/service/auth"
	"github.com/heartmarshall/roadsigns-backend/internal/service/catalog"
	"github.com/heartmarshall/roadsigns-backend/internal/service/games"
	"github.com/heartmarshall/roadsigns-backend/internal/service/progress"
	"github.com/heartmarshall/roadsigns-backend/internal/service/quiz"
	usersvc "github.com/heartmarshall/roadsigns-backend/internal/service/user"
	"github.com/heartmarshall/roadsigns-backend/internal/transport/middleware"
	"github.com/heartmarshall/roadsigns-backend/internal/transport/rest"
)

// Run connects the stores, wires every service and serves HTTP until ctx
// is cancelled. Live quiz and game sessions are torn down after the server
// has drained.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, st.pool, postgres.MigrateUp, logger); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	clock := clockwork.NewRealClock()

	// Repositories.
	users := userrepo.New(st.pool)
	tokens := token.New(st.pool)
	signs := sign.New(st.pool)
	questions := question.New(st.pool)
	categories := category.New(st.pool)
	events := activity.New(st.pool)
	snapshots := progressrepo.New(st.pool)
	tx := postgres.NewTxManager(st.pool)

	// Services.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, clock)
	authService := authsvc.NewService(logger, users, tokens, st.kv, tx, jwtManager, clock, cfg.Auth)
	userService := usersvc.NewService(logger, users, signs, st.kv, clock)
	catalogService := catalog.NewService(logger, signs, questions, categories, st.cache, cfg.Catalog)
	progressService := progress.NewService(logger, events, snapshots, signs, users, userService, tx, clock, cfg.Progress)
	quizService := quiz.NewService(logger, questions, categories, progressService, clock, cfg.Quiz)
	gameManager := games.NewManager(logger, catalogService, clock, cfg.Games)

	router := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler(BuildVersion(), clock, st.checks...),
		Auth:     rest.NewAuthHandler(authService, logger),
		User:     rest.NewUserHandler(userService, logger),
		Catalog:  rest.NewCatalogHandler(catalogService, logger),
		Progress: rest.NewProgressHandler(progressService, logger),
		Quiz:     rest.NewQuizHandler(quizService, logger),
		Games:    rest.NewGamesHandler(gameManager, logger),
	}, catalogService)

	var rateLimit middleware.Middleware
	if cfg.RateLimit.Enabled {
		rateLimit = middleware.NewRateLimiter(cfg.RateLimit).Middleware()
	}
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.ClientIP,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		rateLimit,
		middleware.Auth(authService),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Auth.CleanupInterval > 0 {
		go runTokenCleanup(ctx, authService, clock, cfg.Auth.CleanupInterval, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		quizService.Shutdown()
		gameManager.Shutdown()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	quizService.Shutdown()
	gameManager.Shutdown()
	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type tokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int, error)
}

// runTokenCleanup sweeps expired refresh tokens every interval until ctx ends.
// Failures are logged by the service and retried on the next tick.
func runTokenCleanup(ctx context.Context, svc tokenCleaner, clock clockwork.Clock, interval time.Duration, logger *slog.Logger) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if _, err := svc.CleanupExpiredTokens(ctx); err != nil && ctx.Err() == nil {
				logger.WarnContext(ctx, "scheduled token cleanup failed", slog.String("error", err.Error()))
			}
		}
	}
}
