// Package user implements the User and Consent repositories using PostgreSQL.
package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const userColumns = `id, email, name, password_hash, timezone, created_at, updated_at`

// Repo provides user and consent persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// User operations
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// GetByEmail returns a user by email address, compared case-insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, postgres.MapError(err, "user", email)
	}
	return u, nil
}

// Create inserts a new user and returns the persisted row.
// A duplicate email yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tz := u.Timezone
	if tz == "" {
		tz = "UTC"
	}

	created, err := scanUser(q.QueryRow(ctx,
		`INSERT INTO users (id, email, name, password_hash, timezone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		u.ID, u.Email, u.Name, u.PasswordHash, tz, u.CreatedAt, u.UpdatedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return created, nil
}

// UpdateName sets the display name.
func (r *Repo) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx,
		`UPDATE users SET name = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		id, name,
	))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// UpdateTimezone sets the IANA zone used to derive activity day-keys.
func (r *Repo) UpdateTimezone(ctx context.Context, id uuid.UUID, tz string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx,
		`UPDATE users SET timezone = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		id, tz,
	))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// ---------------------------------------------------------------------------
// Consent operations
// ---------------------------------------------------------------------------

// GetConsent returns the stored consent record or domain.ErrNotFound.
func (r *Repo) GetConsent(ctx context.Context, userID uuid.UUID) (*domain.Consent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.Consent
	err := q.QueryRow(ctx,
		`SELECT user_id, consent_given, consent_version, accepted_at FROM user_consent WHERE user_id = $1`,
		userID,
	).Scan(&c.UserID, &c.Given, &c.Version, &c.AcceptedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user_consent", userID)
	}
	return &c, nil
}

// UpsertConsent writes the consent record, replacing any previous one.
func (r *Repo) UpsertConsent(ctx context.Context, c domain.Consent) (*domain.Consent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var out domain.Consent
	err := q.QueryRow(ctx,
		`INSERT INTO user_consent (user_id, consent_given, consent_version, accepted_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		   SET consent_given = EXCLUDED.consent_given,
		       consent_version = EXCLUDED.consent_version,
		       accepted_at = EXCLUDED.accepted_at
		 RETURNING user_id, consent_given, consent_version, accepted_at`,
		c.UserID, c.Given, c.Version, c.AcceptedAt,
	).Scan(&out.UserID, &out.Given, &out.Version, &out.AcceptedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user_consent", c.UserID)
	}
	return &out, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Timezone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
