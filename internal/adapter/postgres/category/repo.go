// Package category implements the question category repository using PostgreSQL.
package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns all categories ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, postgres.MapError(err, "category", "list")
	}
	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.ID, &c.Name, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, postgres.MapError(err, "category", "list")
	}
	return cats, nil
}

// UpsertBatch inserts categories or renames existing ones by id.
func (r *Repo) UpsertBatch(ctx context.Context, cats []domain.Category) (int, error) {
	if len(cats) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, c := range cats {
		batch.Queue(
			`INSERT INTO categories (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			c.ID, c.Name,
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	var written int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert category: %w", postgres.MapError(err, "category", cats[i].Name))
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}
