package catalog

import (
	"context"
	"fmt"

	"github.com/schollz/closestmatch"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// SearchResult holds the matching signs and, when nothing matched, the
// closest English sign names.
type SearchResult struct {
	Signs       []domain.TrafficSign `json:"signs"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// SearchSigns matches q case-insensitively as a substring of the English or
// Hindi name. An empty query returns the whole catalogue.
func (s *Service) SearchSigns(ctx context.Context, q string) (*SearchResult, error) {
	q = domain.NormalizeQuery(q)
	if q == "" {
		all, err := s.ListSigns(ctx)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Signs: all}, nil
	}

	found, err := s.signs.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search signs: %w", err)
	}
	res := &SearchResult{Signs: found}
	if len(found) > 0 || s.cfg.SuggestionCount <= 0 {
		return res, nil
	}

	all, err := s.ListSigns(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "suggestions unavailable", "error", err)
		return res, nil
	}
	res.Suggestions = suggest(all, q, s.cfg.SuggestionCount)
	return res, nil
}

func suggest(signs []domain.TrafficSign, q string, n int) []string {
	if len(signs) == 0 {
		return nil
	}

	byKey := make(map[string]string, len(signs))
	keys := make([]string, 0, len(signs))
	for _, sg := range signs {
		key := domain.NormalizeQuery(sg.NameEnglish)
		if _, dup := byKey[key]; dup || key == "" {
			continue
		}
		byKey[key] = sg.NameEnglish
		keys = append(keys, key)
	}

	cm := closestmatch.New(keys, []int{2, 3})
	var out []string
	for _, k := range cm.ClosestN(q, n) {
		if name, ok := byKey[k]; ok {
			out = append(out, name)
		}
	}
	return out
}
