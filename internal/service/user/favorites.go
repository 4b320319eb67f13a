package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/kvstore"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// ToggleResult reports the state of a sign after a toggle.
type ToggleResult struct {
	SignID    string   `json:"signId"`
	Favorited bool     `json:"favorited"`
	Favorites []string `json:"favorites"`
}

// ListFavorites returns the favourited sign ids in the order they were added.
func (s *Service) ListFavorites(ctx context.Context) ([]string, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.readFavorites(ctx, userID)
}

// FavoritesCount returns how many signs the user has favourited.
func (s *Service) FavoritesCount(ctx context.Context, userID uuid.UUID) (int, error) {
	ids, err := s.readFavorites(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ToggleFavorite adds signID to the favourites, or removes it when already
// present. The sign must exist.
func (s *Service) ToggleFavorite(ctx context.Context, signID string) (*ToggleResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	signID = strings.TrimSpace(signID)
	if signID == "" {
		return nil, domain.NewValidationError("signId", "required")
	}
	if _, err := s.signs.GetByID(ctx, signID); err != nil {
		return nil, fmt.Errorf("user.ToggleFavorite: %w", err)
	}

	unlock := s.lockFavorites(userID)
	defer unlock()

	ids, err := s.readFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &ToggleResult{SignID: signID}
	if i := slices.Index(ids, signID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, signID)
		res.Favorited = true
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("user.ToggleFavorite encode: %w", err)
	}
	if err := s.kv.Set(ctx, userID, kvstore.KeyFavorites, string(raw)); err != nil {
		return nil, fmt.Errorf("user.ToggleFavorite: %w", err)
	}

	res.Favorites = ids
	return res, nil
}

// readFavorites decodes the stored JSON array. An unreadable value is
// treated as an empty list.
func (s *Service) readFavorites(ctx context.Context, userID uuid.UUID) ([]string, error) {
	raw, ok, err := s.kv.Get(ctx, userID, kvstore.KeyFavorites)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.WarnContext(ctx, "favorites value unreadable, resetting",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
