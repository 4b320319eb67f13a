package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/kvstore"
	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// tokenRepo defines the refresh token repository interface needed by auth service.
type tokenRepo interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}

// kvStore is the per-user key-value store primed on sign-in.
type kvStore interface {
	Set(ctx context.Context, userID uuid.UUID, key, value string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// txManager defines the transaction manager interface needed by auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, error)
	GenerateRefreshToken() (raw string, hash string, err error)
}

// Service implements auth operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	tokens tokenRepo
	kv     kvStore
	tx     txManager
	jwt    jwtManager
	clock  clockwork.Clock
	cfg    config.AuthConfig

	// dummyHash is compared against when there is no real hash to check.
	dummyHash func() []byte
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	tokens tokenRepo,
	kv kvStore,
	tx txManager,
	jwt jwtManager,
	clock clockwork.Clock,
	cfg config.AuthConfig,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cost := cfg.BcryptCost
	return &Service{
		dummyHash: sync.OnceValue(func() []byte {
			h, err := bcrypt.GenerateFromPassword([]byte("roadsigns-no-such-user"), cost)
			if err != nil {
				h, _ = bcrypt.GenerateFromPassword([]byte("roadsigns-no-such-user"), bcrypt.DefaultCost)
			}
			return h
		}),
		log:    logger.With("service", "auth"),
		users:  users,
		tokens: tokens,
		kv:     kv,
		tx:     tx,
		jwt:    jwt,
		clock:  clock,
		cfg:    cfg,
	}
}

// issueTokens generates access and refresh tokens for the given user, stores
// the refresh token hash in DB, and returns an AuthResult.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, hashRefresh, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if _, err := s.tokens.Create(ctx, user.ID, hashRefresh, s.clock.Now().Add(s.cfg.RefreshTokenTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
		User:         user,
	}, nil
}

// primeSession writes the signed-in markers into the user's keyspace.
// Failures are logged; sign-in does not depend on the store.
func (s *Service) primeSession(ctx context.Context, user *domain.User) {
	entries := []struct{ key, value string }{
		{kvstore.KeyIsLoggedIn, "true"},
		{kvstore.KeyUserEmail, user.Email},
		{kvstore.KeyUserName, user.DisplayName()},
		{kvstore.KeyUserID, user.ID.String()},
	}
	for _, e := range entries {
		if err := s.kv.Set(ctx, user.ID, e.key, e.value); err != nil {
			s.log.WarnContext(ctx, "prime kv store",
				slog.String("user_id", user.ID.String()),
				slog.String("key", e.key),
				slog.String("error", err.Error()))
			return
		}
	}
}
