package dataloader

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

func newSignBatchFn(signs signSource) dataloader.BatchFunc[string, *domain.TrafficSign] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.TrafficSign] {
		found, err := signs.SignsByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.TrafficSign](len(keys), err)
		}

		byID := make(map[string]*domain.TrafficSign, len(found))
		for i := range found {
			byID[found[i].ID] = &found[i]
		}

		results := make([]*dataloader.Result[*domain.TrafficSign], len(keys))
		for i, key := range keys {
			if s, ok := byID[key]; ok {
				results[i] = &dataloader.Result[*domain.TrafficSign]{Data: s}
				continue
			}
			results[i] = &dataloader.Result[*domain.TrafficSign]{
				Error: fmt.Errorf("sign %q: %w", key, domain.ErrNotFound),
			}
		}
		return results
	}
}

// errorResults creates n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}
