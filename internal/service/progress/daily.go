package progress

import (
	"context"
	"fmt"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// DailyGoal is the home-screen summary for the current day.
type DailyGoal struct {
	LearnedToday int  `json:"learnedToday"`
	Goal         int  `json:"goal"`
	Progress     int  `json:"progress"`
	Completed    bool `json:"completed"`
	StreakDays   int  `json:"streakDays"`
	BestScore    int  `json:"bestScore"`
}

// DailyGoal counts the distinct signs learned during the user's current day.
// This is narrower than the all-time count Compute reports. Streak and best
// score come from the stored snapshot without recomputation.
func (s *Service) DailyGoal(ctx context.Context) (*DailyGoal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := s.clock.Now()
	loc := s.userLocation(ctx, userID)
	from, to := DayStart(now, loc), NextDayStart(now, loc)

	today, err := s.activity.DistinctDetails(ctx, userID, domain.ActivityLearnedSign, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("learned today: %w", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	goal := max(s.cfg.DailyGoal, 1)
	return &DailyGoal{
		LearnedToday: len(today),
		Goal:         goal,
		Progress:     min(len(today), goal),
		Completed:    len(today) >= goal,
		StreakDays:   snap.StreakDays,
		BestScore:    snap.BestScore,
	}, nil
}
