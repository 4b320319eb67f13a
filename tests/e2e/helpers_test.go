//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/kvstore"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/category"
	progressrepo "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/progress"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/question"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/sign"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/roadsigns-backend/internal/app/seeder"
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

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter routes slog output through t.Log so it only shows for
// failing tests.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// testConfig loads configuration from defaults with the minimum env set.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_DSN", "postgres://unused@localhost/unused")
	t.Setenv("AUTH_JWT_SECRET", "test-secret-at-least-32-chars-long!!")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("KV_DRIVER", config.KVDriverMemory)
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)
	return cfg
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper) and seeds the default
// catalogue.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	clock := clockwork.NewRealClock()
	tx := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	tokens := token.New(pool)
	signs := sign.New(pool)
	questions := question.New(pool)
	categories := category.New(pool)
	events := activity.New(pool)
	snapshots := progressrepo.New(pool)
	kv := kvstore.NewMemory()

	cat, err := seeder.DefaultCatalogue()
	require.NoError(t, err)
	pipeline := seeder.NewPipeline(logger, seeder.Repos{
		Categories: categories,
		Signs:      signs,
		Questions:  questions,
		Tx:         tx,
	}, seeder.Config{BatchSize: 100})
	require.NoError(t, pipeline.Run(context.Background(), cat))

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, clock)
	authService := authsvc.NewService(logger, users, tokens, kv, tx, jwtManager, clock, cfg.Auth)
	userService := usersvc.NewService(logger, users, signs, kv, clock)
	catalogService := catalog.NewService(logger, signs, questions, categories, kvstore.NopCache{}, cfg.Catalog)
	progressService := progress.NewService(logger, events, snapshots, signs, users, userService, tx, clock, cfg.Progress)
	quizService := quiz.NewService(logger, questions, categories, progressService, clock, cfg.Quiz)
	gameManager := games.NewManager(logger, catalogService, clock, cfg.Games)
	t.Cleanup(func() {
		quizService.Shutdown()
		gameManager.Shutdown()
	})

	router := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler("test-version", clock, rest.Check{Name: "database", Pinger: pool}),
		Auth:     rest.NewAuthHandler(authService, logger),
		User:     rest.NewUserHandler(userService, logger),
		Catalog:  rest.NewCatalogHandler(catalogService, logger),
		Progress: rest.NewProgressHandler(progressService, logger),
		Quiz:     rest.NewQuizHandler(quizService, logger),
		Games:    rest.NewGamesHandler(gameManager, logger),
	}, catalogService)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.ClientIP,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(authService),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), Pool: pool}
}

// do sends a JSON request and decodes the JSON response into a map. A nil
// body sends no payload; an empty token sends no Authorization header.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	return resp.StatusCode, result
}

// doList is like do for endpoints that answer with a JSON array.
func (ts *testServer) doList(t *testing.T, path, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// registerUser signs a fresh user up through the API and returns the
// access and refresh tokens.
func registerUser(t *testing.T, ts *testServer) (access, refresh string) {
	t.Helper()

	suffix := uuid.NewString()[:8]
	status, body := ts.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name":     "Driver " + suffix,
		"email":    fmt.Sprintf("driver-%s@example.com", suffix),
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, status, "register: %v", body)

	access, _ = body["accessToken"].(string)
	refresh, _ = body["refreshToken"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

// errorCode extracts error.code from the REST error envelope.
func errorCode(body map[string]any) string {
	e, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}
