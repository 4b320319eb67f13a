// Package question implements the quiz question bank repository using PostgreSQL.
package question

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

var columns = []string{
	"id", "category_id", "question", "option_a", "option_b", "correct_answer",
	"explanation", "media_type", "media_url", "created_at",
}

// Repo provides question persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new question repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns questions in insertion order. A non-nil categoryID restricts
// the result to that category.
func (r *Repo) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error) {
	q := postgres.Builder().Select(columns...).From("questions")
	if categoryID != nil {
		q = q.Where(squirrel.Eq{"category_id": *categoryID})
	}

	sql, args, err := q.OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "question", categoryID)
	}
	questions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.QuizQuestion, error) {
		return scanQuestion(row)
	})
	if err != nil {
		return nil, postgres.MapError(err, "question", categoryID)
	}
	return questions, nil
}

// UpsertBatch inserts or replaces questions by id.
func (r *Repo) UpsertBatch(ctx context.Context, questions []domain.QuizQuestion) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		var media *string
		if q.MediaType != nil {
			m := string(*q.MediaType)
			media = &m
		}
		batch.Queue(
			`INSERT INTO questions (id, category_id, question, option_a, option_b, correct_answer, explanation, media_type, media_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO UPDATE SET
			     category_id    = EXCLUDED.category_id,
			     question       = EXCLUDED.question,
			     option_a       = EXCLUDED.option_a,
			     option_b       = EXCLUDED.option_b,
			     correct_answer = EXCLUDED.correct_answer,
			     explanation    = EXCLUDED.explanation,
			     media_type     = EXCLUDED.media_type,
			     media_url      = EXCLUDED.media_url`,
			q.ID, q.CategoryID, q.Prompt, q.OptionA, q.OptionB, string(q.CorrectAnswer), q.Explanation, media, q.MediaURL,
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	var written int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert question: %w", postgres.MapError(err, "question", questions[i].ID))
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

func scanQuestion(row pgx.Row) (domain.QuizQuestion, error) {
	var (
		q       domain.QuizQuestion
		correct string
		media   *string
	)
	err := row.Scan(&q.ID, &q.CategoryID, &q.Prompt, &q.OptionA, &q.OptionB, &correct,
		&q.Explanation, &media, &q.MediaURL, &q.CreatedAt)
	if err != nil {
		return domain.QuizQuestion{}, err
	}
	q.CorrectAnswer = domain.Answer(correct)
	if media != nil {
		m := domain.MediaType(*media)
		q.MediaType = &m
	}
	return q, nil
}
