// Package seeder validates a road-sign catalogue and imports it.
package seeder

import (
	"context"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// CategoryRepo upserts quiz categories by id.
type CategoryRepo interface {
	UpsertBatch(ctx context.Context, cats []domain.Category) (int, error)
}

// SignRepo upserts signs by id.
type SignRepo interface {
	UpsertBatch(ctx context.Context, signs []domain.TrafficSign) (int, error)
}

// QuestionRepo upserts questions by id.
type QuestionRepo interface {
	UpsertBatch(ctx context.Context, questions []domain.QuizQuestion) (int, error)
}

// TxManager runs fn in a single transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repos bundles the write side of the catalogue.
type Repos struct {
	Categories CategoryRepo
	Signs      SignRepo
	Questions  QuestionRepo
	Tx         TxManager
}
