// Package progress implements the cached per-user progress snapshot using PostgreSQL.
package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const snapshotColumns = `user_id, learned_signs, tests_completed, best_score, streak, favorites, updated_at`

// Repo provides progress snapshot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new progress repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the stored snapshot for a user.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.ProgressSnapshot, error) {
	s, err := scanSnapshot(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM user_progress WHERE user_id = $1`, userID,
	))
	if err != nil {
		return nil, postgres.MapError(err, "progress", userID)
	}
	return s, nil
}

// Upsert writes the snapshot last-write-wins, except best_score which never
// decreases.
func (r *Repo) Upsert(ctx context.Context, s domain.ProgressSnapshot) (*domain.ProgressSnapshot, error) {
	at := s.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}

	out, err := scanSnapshot(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO user_progress (user_id, learned_signs, tests_completed, best_score, streak, favorites, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		     learned_signs   = EXCLUDED.learned_signs,
		     tests_completed = EXCLUDED.tests_completed,
		     best_score      = GREATEST(user_progress.best_score, EXCLUDED.best_score),
		     streak          = EXCLUDED.streak,
		     favorites       = EXCLUDED.favorites,
		     updated_at      = EXCLUDED.updated_at
		 RETURNING `+snapshotColumns,
		s.UserID, s.LearnedSigns, s.TestsCompleted, s.BestScore, s.StreakDays, s.Favorites, at,
	))
	if err != nil {
		return nil, postgres.MapError(err, "progress", s.UserID)
	}
	return out, nil
}

// RecordTestResult bumps tests_completed and raises best_score to percent if
// higher. The row is created when missing.
func (r *Repo) RecordTestResult(ctx context.Context, userID uuid.UUID, percent int, at time.Time) (*domain.ProgressSnapshot, error) {
	out, err := scanSnapshot(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO user_progress (user_id, tests_completed, best_score, updated_at)
		 VALUES ($1, 1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		     tests_completed = user_progress.tests_completed + 1,
		     best_score      = GREATEST(user_progress.best_score, EXCLUDED.best_score),
		     updated_at      = EXCLUDED.updated_at
		 RETURNING `+snapshotColumns,
		userID, percent, at,
	))
	if err != nil {
		return nil, postgres.MapError(err, "progress", userID)
	}
	return out, nil
}

func scanSnapshot(row pgx.Row) (*domain.ProgressSnapshot, error) {
	var s domain.ProgressSnapshot
	err := row.Scan(&s.UserID, &s.LearnedSigns, &s.TestsCompleted, &s.BestScore, &s.StreakDays, &s.Favorites, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
