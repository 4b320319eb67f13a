// Package activity implements the append-only user activity log using
// PostgreSQL. Filtered listing is built with squirrel; the fixed-shape
// counters use raw SQL.
package activity

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const table = "user_activity"

var columns = []string{"id", "user_id", "type", "details", "created_at"}

// Repo provides activity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert appends an event. ID and CreatedAt are assigned here when zero;
// created_at is otherwise left to the database default.
func (r *Repo) Insert(ctx context.Context, ev domain.ActivityEvent) (*domain.ActivityEvent, error) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	ins := postgres.Builder().Insert(table)
	if ev.CreatedAt.IsZero() {
		ins = ins.Columns("id", "user_id", "type", "details").
			Values(ev.ID, ev.UserID, string(ev.Type), ev.Details)
	} else {
		ins = ins.Columns(columns...).
			Values(ev.ID, ev.UserID, string(ev.Type), ev.Details, ev.CreatedAt)
	}

	sql, args, err := ins.Suffix("RETURNING id, user_id, type, details, created_at").ToSql()
	if err != nil {
		return nil, err
	}

	out, err := scanEvent(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "activity", ev.ID)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns a user's events matching f. With f.Newest the newest come
// first; otherwise order is unspecified. A zero f.Limit means no limit.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, f domain.ActivityFilter) ([]domain.ActivityEvent, error) {
	q := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID})

	if f.Type != nil {
		q = q.Where(squirrel.Eq{"type": string(*f.Type)})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *f.To})
	}
	if f.Newest {
		q = q.OrderBy("created_at DESC", "id")
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "activity", userID)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ActivityEvent, error) {
		ev, err := scanEvent(row)
		if err != nil {
			return domain.ActivityEvent{}, err
		}
		return *ev, nil
	})
	if err != nil {
		return nil, postgres.MapError(err, "activity", userID)
	}
	return events, nil
}

// DistinctDetails returns the distinct non-null details of a user's events of
// the given type, optionally restricted to [from, to).
func (r *Repo) DistinctDetails(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, from, to *time.Time) ([]string, error) {
	q := postgres.Builder().
		Select("DISTINCT details").
		From(table).
		Where(squirrel.Eq{"user_id": userID, "type": string(typ)}).
		Where(squirrel.NotEq{"details": nil})
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *from})
	}
	if to != nil {
		q = q.Where(squirrel.Lt{"created_at": *to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "activity", userID)
	}
	details, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, "activity", userID)
	}
	return details, nil
}

// CountByType counts a user's events of one type. Repeats are counted.
func (r *Repo) CountByType(ctx context.Context, userID uuid.UUID, typ domain.ActivityType) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM user_activity WHERE user_id = $1 AND type = $2`,
		userID, string(typ),
	).Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, "activity", userID)
	}
	return n, nil
}

// ExistsOnDay reports whether an event with this type and details exists
// in the day window [from, to).
func (r *Repo) ExistsOnDay(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, details string, from, to time.Time) (bool, error) {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM user_activity
		   WHERE user_id = $1 AND type = $2 AND details = $3
		     AND created_at >= $4 AND created_at < $5)`,
		userID, string(typ), details, from, to,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "activity", userID)
	}
	return exists, nil
}

func scanEvent(row pgx.Row) (*domain.ActivityEvent, error) {
	var (
		ev  domain.ActivityEvent
		typ string
	)
	if err := row.Scan(&ev.ID, &ev.UserID, &typ, &ev.Details, &ev.CreatedAt); err != nil {
		return nil, err
	}
	ev.Type = domain.ActivityType(typ)
	return &ev, nil
}
