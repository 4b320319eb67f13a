// Package progress derives learning progress (counters, streak and badges)
// from the activity log and keeps the cached per-user snapshot current.
package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type activityRepo interface {
	Insert(ctx context.Context, ev domain.ActivityEvent) (*domain.ActivityEvent, error)
	List(ctx context.Context, userID uuid.UUID, f domain.ActivityFilter) ([]domain.ActivityEvent, error)
	DistinctDetails(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, from, to *time.Time) ([]string, error)
	ExistsOnDay(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, details string, from, to time.Time) (bool, error)
}

type progressRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.ProgressSnapshot, error)
	Upsert(ctx context.Context, s domain.ProgressSnapshot) (*domain.ProgressSnapshot, error)
	RecordTestResult(ctx context.Context, userID uuid.UUID, percent int, at time.Time) (*domain.ProgressSnapshot, error)
}

type signRepo interface {
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*domain.TrafficSign, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type favoritesCounter interface {
	FavoritesCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements progress tracking.
type Service struct {
	activity  activityRepo
	snapshots progressRepo
	signs     signRepo
	users     userRepo
	favorites favoritesCounter
	tx        txManager
	clock     clockwork.Clock
	log       *slog.Logger
	cfg       config.ProgressConfig
}

// NewService creates a new progress service.
func NewService(
	log *slog.Logger,
	activity activityRepo,
	snapshots progressRepo,
	signs signRepo,
	users userRepo,
	favorites favoritesCounter,
	tx txManager,
	clock clockwork.Clock,
	cfg config.ProgressConfig,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		activity:  activity,
		snapshots: snapshots,
		signs:     signs,
		users:     users,
		favorites: favorites,
		tx:        tx,
		clock:     clock,
		log:       log.With("service", "progress"),
		cfg:       cfg,
	}
}

// userLocation returns the user's configured timezone, or UTC when the
// profile cannot be read.
func (s *Service) userLocation(ctx context.Context, userID uuid.UUID) *time.Location {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "load user timezone", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
		return time.UTC
	}
	return ParseTimezone(u.Timezone)
}
