// Package user implements the signed-in user's profile, terms consent and
// favourite signs.
package user

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/microcosm-cc/bluemonday"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)
	UpdateTimezone(ctx context.Context, id uuid.UUID, tz string) (*domain.User, error)
	GetConsent(ctx context.Context, userID uuid.UUID) (*domain.Consent, error)
	UpsertConsent(ctx context.Context, c domain.Consent) (*domain.Consent, error)
}

// signRepo checks that a favourited sign exists.
type signRepo interface {
	GetByID(ctx context.Context, id string) (*domain.TrafficSign, error)
}

// kvStore holds the favourites list under the user's keyspace.
type kvStore interface {
	Get(ctx context.Context, userID uuid.UUID, key string) (string, bool, error)
	Set(ctx context.Context, userID uuid.UUID, key, value string) error
}

// Service implements user profile, consent and favourites operations.
type Service struct {
	log       *slog.Logger
	users     userRepo
	signs     signRepo
	kv        kvStore
	clock     clockwork.Clock
	sanitizer *bluemonday.Policy

	// favMu serialises favourite toggles per user.
	favMu    sync.Mutex
	favLocks map[uuid.UUID]*sync.Mutex
}

// NewService creates a new user service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	signs signRepo,
	kv kvStore,
	clock clockwork.Clock,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		log:       logger.With("service", "user"),
		users:     users,
		signs:     signs,
		kv:        kv,
		clock:     clock,
		sanitizer: bluemonday.StrictPolicy(),
		favLocks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Service) lockFavorites(userID uuid.UUID) func() {
	s.favMu.Lock()
	mu, ok := s.favLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.favLocks[userID] = mu
	}
	s.favMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
