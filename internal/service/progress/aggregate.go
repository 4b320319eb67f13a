package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// Counter names reported in Result.Degraded.
const (
	CounterTotalSigns     = "totalSigns"
	CounterLearnedSigns   = "learnedSigns"
	CounterTestsCompleted = "testsCompleted"
	CounterBestScore      = "bestScore"
	CounterStreakDays     = "streakDays"
	CounterFavorites      = "favorites"
	CounterPersist        = "persist"
)

// Result is the freshly computed progress of one user.
type Result struct {
	domain.Counters
	TotalSigns     int                  `json:"totalSigns"`
	PercentLearned int                  `json:"percentLearned"`
	Badges         []domain.BadgeStatus `json:"badges"`
	Degraded       []string             `json:"degraded,omitempty"`
	ComputedAt     time.Time            `json:"computedAt"`
}

// Compute recomputes every counter from its source, persists the snapshot
// and evaluates badges. It never fails: a source that cannot be read zeroes
// its own counter and is listed in Result.Degraded. A failed persist is
// logged and the computed counters are still returned.
func (s *Service) Compute(ctx context.Context) Result {
	now := s.clock.Now()
	res := Result{ComputedAt: now}

	total, err := s.signs.Count(ctx)
	if err != nil {
		res.degrade(ctx, s.log, CounterTotalSigns, err)
	}
	res.TotalSigns = total

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		res.Badges = EvaluateBadges(res.Counters)
		return res
	}

	res.LearnedSigns = s.learnedCount(ctx, &res, userID)
	res.TestsCompleted, res.BestScore = s.testStats(ctx, &res, userID)
	res.StreakDays = s.streak(ctx, &res, userID, now)

	if n, err := s.favorites.FavoritesCount(ctx, userID); err != nil {
		res.degrade(ctx, s.log, CounterFavorites, err)
	} else {
		res.Favorites = n
	}

	if res.partial() {
		// Zeroed counters must not overwrite the last good snapshot.
		s.log.InfoContext(ctx, "skip progress snapshot",
			slog.String("user_id", userID.String()),
			slog.Any("degraded", res.Degraded),
		)
		return s.finish(res)
	}

	saved, err := s.snapshots.Upsert(ctx, domain.ProgressSnapshot{
		UserID:    userID,
		Counters:  res.Counters,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "persist progress snapshot",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		res.Degraded = append(res.Degraded, CounterPersist)
	} else {
		// The stored best may be higher than any score still parseable.
		res.Counters = res.Counters.Merge(saved.Counters)
	}

	return s.finish(res)
}

func (s *Service) finish(res Result) Result {
	if res.TotalSigns > 0 {
		res.PercentLearned = min(Percent(res.LearnedSigns, res.TotalSigns), 100)
	}
	res.Badges = EvaluateBadges(res.Counters)
	return res
}

func (s *Service) learnedCount(ctx context.Context, res *Result, userID uuid.UUID) int {
	signs, err := s.activity.DistinctDetails(ctx, userID, domain.ActivityLearnedSign, nil, nil)
	if err != nil {
		res.degrade(ctx, s.log, CounterLearnedSigns, err)
		return 0
	}
	return len(signs)
}

func (s *Service) testStats(ctx context.Context, res *Result, userID uuid.UUID) (int, int) {
	typ := domain.ActivityTestCompleted
	events, err := s.activity.List(ctx, userID, domain.ActivityFilter{Type: &typ})
	if err != nil {
		res.degrade(ctx, s.log, CounterTestsCompleted, err)
		res.Degraded = append(res.Degraded, CounterBestScore)
		return 0, 0
	}

	details := make([]string, 0, len(events))
	for _, ev := range events {
		details = append(details, ev.DetailsOrEmpty())
	}
	return len(events), BestScore(details)
}

// streak reads the most recent events and widens the read once when they
// span fewer distinct days than the widening threshold.
func (s *Service) streak(ctx context.Context, res *Result, userID uuid.UUID, now time.Time) int {
	loc := s.userLocation(ctx, userID)

	recent, err := s.activity.List(ctx, userID, domain.ActivityFilter{Newest: true, Limit: s.cfg.RecentWindow})
	if err != nil {
		res.degrade(ctx, s.log, CounterStreakDays, err)
		return 0
	}

	days := make(map[string]struct{}, len(recent))
	collectDayKeys(days, recent, loc)

	if len(days) < s.cfg.WidenThreshold {
		wide, err := s.activity.List(ctx, userID, domain.ActivityFilter{Newest: true, Limit: s.cfg.WidenLimit})
		if err != nil {
			s.log.WarnContext(ctx, "widen streak window",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()),
			)
		} else {
			collectDayKeys(days, wide, loc)
		}
	}

	return CalculateStreak(days, now, loc, s.cfg.StreakCap)
}

// partial reports whether a counter stored in the snapshot failed to load.
func (r *Result) partial() bool {
	for _, c := range r.Degraded {
		if c != CounterTotalSigns && c != CounterPersist {
			return true
		}
	}
	return false
}

func (r *Result) degrade(ctx context.Context, log *slog.Logger, counter string, err error) {
	r.Degraded = append(r.Degraded, counter)
	log.WarnContext(ctx, "progress counter degraded",
		slog.String("counter", counter),
		slog.String("error", err.Error()),
	)
}
