// Package dataloader provides per-request DataLoaders that batch sign
// lookups into single catalogue queries.
package dataloader

import (
	"context"
	"errors"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type signSource interface {
	SignsByIDs(ctx context.Context, ids []string) ([]domain.TrafficSign, error)
}

// Loaders holds the per-request loaders.
type Loaders struct {
	SignByID *dataloader.Loader[string, *domain.TrafficSign]
}

// NewLoaders creates a fresh set of loaders. Call once per request.
func NewLoaders(signs signSource) *Loaders {
	return &Loaders{
		SignByID: newLoader(newSignBatchFn(signs)),
	}
}

func newLoader[K comparable, V any](batchFn dataloader.BatchFunc[K, V]) *dataloader.Loader[K, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[K, V](wait),
		dataloader.WithBatchCapacity[K, V](maxBatch),
	)
}

type ctxKey struct{}

// WithLoaders stores loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext extracts loaders from the context. It panics when the
// middleware was not installed, which is a wiring bug.
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(ctxKey{}).(*Loaders)
	if !ok {
		panic("dataloader: loaders not found in context")
	}
	return l
}

// LoadSigns resolves ids through the request's sign loader, preserving the
// order of ids. Ids that no longer exist in the catalogue are skipped.
func LoadSigns(ctx context.Context, ids []string) ([]domain.TrafficSign, error) {
	if len(ids) == 0 {
		return []domain.TrafficSign{}, nil
	}
	signs, errs := FromContext(ctx).SignByID.LoadMany(ctx, ids)()

	out := make([]domain.TrafficSign, 0, len(ids))
	for i, s := range signs {
		if i < len(errs) && errs[i] != nil {
			if errors.Is(errs[i], domain.ErrNotFound) {
				continue
			}
			return nil, errs[i]
		}
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}
