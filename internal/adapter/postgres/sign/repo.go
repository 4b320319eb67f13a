// Package sign implements the traffic sign catalogue repository using PostgreSQL.
package sign

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

var columns = []string{
	"id", "name_english", "name_hindi", "meaning", "hindi_meaning", "explanation",
	"real_life_example", "color", "shape", "category", "video_url", "icon_urls",
	"sort_order", "created_at",
}

const orderBy = "sort_order, name_english, id"

// Repo provides read access to the sign catalogue and the seed upsert.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sign repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns every sign ordered by sort_order, then English name.
func (r *Repo) List(ctx context.Context) ([]domain.TrafficSign, error) {
	return r.query(ctx, postgres.Builder().Select(columns...).From("traffic_signs").OrderBy(orderBy))
}

// GetByID returns one sign.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.TrafficSign, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From("traffic_signs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSign(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "sign", id)
	}
	return s, nil
}

// GetByIDs returns the signs among ids that exist, in catalogue order.
// Unknown ids are silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, ids []string) ([]domain.TrafficSign, error) {
	if len(ids) == 0 {
		return []domain.TrafficSign{}, nil
	}
	return r.query(ctx, postgres.Builder().
		Select(columns...).
		From("traffic_signs").
		Where(squirrel.Eq{"id": ids}).
		OrderBy(orderBy))
}

// Search returns signs whose English or Hindi name contains q,
// case-insensitively. Wildcards in q match literally.
func (r *Repo) Search(ctx context.Context, q string) ([]domain.TrafficSign, error) {
	pattern := "%" + domain.EscapeLike(q) + "%"
	return r.query(ctx, postgres.Builder().
		Select(columns...).
		From("traffic_signs").
		Where(squirrel.Or{
			squirrel.ILike{"name_english": pattern},
			squirrel.ILike{"name_hindi": pattern},
		}).
		OrderBy(orderBy))
}

// Count returns the catalogue size.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM traffic_signs`).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "sign", "count")
	}
	return n, nil
}

// UpsertBatch inserts or replaces signs by id and returns the number of rows
// written.
func (r *Repo) UpsertBatch(ctx context.Context, signs []domain.TrafficSign) (int, error) {
	if len(signs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, s := range signs {
		icons := s.IconURLs
		if icons == nil {
			icons = []string{}
		}
		batch.Queue(
			`INSERT INTO traffic_signs (id, name_english, name_hindi, meaning, hindi_meaning, explanation,
			     real_life_example, color, shape, category, video_url, icon_urls, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (id) DO UPDATE SET
			     name_english      = EXCLUDED.name_english,
			     name_hindi        = EXCLUDED.name_hindi,
			     meaning           = EXCLUDED.meaning,
			     hindi_meaning     = EXCLUDED.hindi_meaning,
			     explanation       = EXCLUDED.explanation,
			     real_life_example = EXCLUDED.real_life_example,
			     color             = EXCLUDED.color,
			     shape             = EXCLUDED.shape,
			     category          = EXCLUDED.category,
			     video_url         = EXCLUDED.video_url,
			     icon_urls         = EXCLUDED.icon_urls,
			     sort_order        = EXCLUDED.sort_order`,
			s.ID, s.NameEnglish, s.NameHindi, s.Meaning, s.HindiMeaning, s.Explanation,
			s.RealLifeExample, s.Color, s.Shape, string(s.Category), s.VideoURL, icons, s.SortOrder,
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	var written int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert sign %s: %w", signs[i].ID, postgres.MapError(err, "sign", signs[i].ID))
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

func (r *Repo) query(ctx context.Context, b squirrel.SelectBuilder) ([]domain.TrafficSign, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "sign", "list")
	}
	signs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TrafficSign, error) {
		s, err := scanSign(row)
		if err != nil {
			return domain.TrafficSign{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, postgres.MapError(err, "sign", "list")
	}
	return signs, nil
}

func scanSign(row pgx.Row) (*domain.TrafficSign, error) {
	var (
		s        domain.TrafficSign
		category string
	)
	err := row.Scan(
		&s.ID, &s.NameEnglish, &s.NameHindi, &s.Meaning, &s.HindiMeaning, &s.Explanation,
		&s.RealLifeExample, &s.Color, &s.Shape, &category, &s.VideoURL, &s.IconURLs,
		&s.SortOrder, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Category = domain.SignCategory(category)
	return &s, nil
}
