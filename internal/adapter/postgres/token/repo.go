// Package token implements the RefreshToken repository using PostgreSQL.
package token

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const columns = `id, user_id, token_hash, expires_at, created_at, revoked_at`

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new refresh token and returns the stored row.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.RefreshToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+columns,
		uuid.New(), userID, tokenHash, expiresAt,
	)
	t, err := scanToken(row)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", userID)
	}
	return t, nil
}

// GetByHash returns the token with the given hash whatever its state, so the
// caller can tell a replayed, already-rotated token from an unknown one.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+columns+` FROM refresh_tokens
		 WHERE token_hash = $1`,
		tokenHash,
	)
	t, err := scanToken(row)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", "by-hash")
	}
	return t, nil
}

// RevokeByID revokes a specific refresh token. Revoking twice is not an error.
func (r *Repo) RevokeByID(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id)
	return postgres.MapError(err, "refresh_token", id)
}

// RevokeAllByUser revokes all active refresh tokens for the given user.
func (r *Repo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	return postgres.MapError(err, "refresh_token", userID)
}

// DeleteExpired removes all expired or revoked tokens and returns how many
// rows went. May delete many records; does not use a transaction.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= now() OR revoked_at IS NOT NULL`)
	if err != nil {
		return 0, postgres.MapError(err, "refresh_token", "expired")
	}
	return int(tag.RowsAffected()), nil
}

func scanToken(row pgx.Row) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
