package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

const defaultActivityLimit = 20

// RecentActivity returns the newest events of the current user.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if s.cfg.ActivityMaxPage > 0 {
		limit = min(limit, s.cfg.ActivityMaxPage)
	}

	events, err := s.activity.List(ctx, userID, domain.ActivityFilter{Newest: true, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return events, nil
}

// MarkLearned records that the current user studied a sign. With
// dedupeToday, nothing is written when the sign was already recorded during
// the user's current day. It reports whether an event was written.
func (s *Service) MarkLearned(ctx context.Context, signID string, dedupeToday bool) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	signID = strings.TrimSpace(signID)
	if signID == "" {
		return false, domain.NewValidationError("sign_id", "required")
	}
	if _, err := s.signs.GetByID(ctx, signID); err != nil {
		return false, fmt.Errorf("get sign: %w", err)
	}

	if dedupeToday {
		now := s.clock.Now()
		loc := s.userLocation(ctx, userID)
		exists, err := s.activity.ExistsOnDay(ctx, userID, domain.ActivityLearnedSign, signID, DayStart(now, loc), NextDayStart(now, loc))
		if err != nil {
			return false, fmt.Errorf("check learned today: %w", err)
		}
		if exists {
			return false, nil
		}
	}

	if _, err := s.activity.Insert(ctx, domain.ActivityEvent{
		UserID:  userID,
		Type:    domain.ActivityLearnedSign,
		Details: &signID,
	}); err != nil {
		return false, fmt.Errorf("insert learned_sign: %w", err)
	}

	s.log.InfoContext(ctx, "sign learned",
		slog.String("user_id", userID.String()),
		slog.String("sign_id", signID),
	)
	return true, nil
}

// TestResult is what RecordTestResult stored.
type TestResult struct {
	Correct     int    `json:"correct"`
	Denominator int    `json:"denominator"`
	Percent     int    `json:"percent"`
	Details     string `json:"details"`
}

// RecordTestResult appends a test_completed event and folds the score into
// the stored snapshot: one more test, best score raised if higher.
func (s *Service) RecordTestResult(ctx context.Context, correct, denominator int) (*TestResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var errs []domain.FieldError
	if denominator <= 0 {
		errs = append(errs, domain.FieldError{Field: "denominator", Message: "must be positive"})
	}
	if correct < 0 || correct > denominator {
		errs = append(errs, domain.FieldError{Field: "correct", Message: "must be between 0 and denominator"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	res := &TestResult{
		Correct:     correct,
		Denominator: denominator,
		Percent:     Percent(correct, denominator),
		Details:     FormatScore(correct, denominator),
	}
	now := s.clock.Now()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.activity.Insert(ctx, domain.ActivityEvent{
			UserID:    userID,
			Type:      domain.ActivityTestCompleted,
			Details:   &res.Details,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("insert test_completed: %w", err)
		}
		if _, err := s.snapshots.RecordTestResult(ctx, userID, res.Percent, now); err != nil {
			return fmt.Errorf("record test result: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "test completed",
		slog.String("user_id", userID.String()),
		slog.String("details", res.Details),
		slog.Int("percent", res.Percent),
	)
	return res, nil
}

// Snapshot returns the stored snapshot of the current user. A user who has
// never had progress computed gets a zero snapshot.
func (s *Service) Snapshot(ctx context.Context) (*domain.ProgressSnapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	snap, err := s.snapshots.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ProgressSnapshot{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}
