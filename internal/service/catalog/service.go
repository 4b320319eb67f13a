// Package catalog serves the shared traffic-sign catalogue and the quiz
// question bank. None of its operations require a user.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const signsCacheKey = "catalog:signs:v1"

type signRepo interface {
	List(ctx context.Context) ([]domain.TrafficSign, error)
	GetByID(ctx context.Context, id string) (*domain.TrafficSign, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.TrafficSign, error)
	Search(ctx context.Context, q string) ([]domain.TrafficSign, error)
	Count(ctx context.Context) (int, error)
}

type questionRepo interface {
	List(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error)
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type byteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service implements catalogue reads with a cache in front of the sign list.
type Service struct {
	log        *slog.Logger
	signs      signRepo
	questions  questionRepo
	categories categoryRepo
	cache      byteCache
	cfg        config.CatalogConfig

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a catalog service.
func NewService(
	logger *slog.Logger,
	signs signRepo,
	questions questionRepo,
	categories categoryRepo,
	cache byteCache,
	cfg config.CatalogConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "catalog"),
		signs:      signs,
		questions:  questions,
		categories: categories,
		cache:      cache,
		cfg:        cfg,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// ListSigns returns every sign ordered by sort order then English name.
// A cache failure falls back to the database.
func (s *Service) ListSigns(ctx context.Context) ([]domain.TrafficSign, error) {
	raw, ok, err := s.cache.GetBytes(ctx, signsCacheKey)
	if err != nil {
		s.log.WarnContext(ctx, "sign cache read failed", slog.String("error", err.Error()))
	}
	if ok {
		var cached []domain.TrafficSign
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.log.WarnContext(ctx, "sign cache entry corrupt, dropping")
		_ = s.cache.Delete(ctx, signsCacheKey)
	}

	signs, err := s.signs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list signs: %w", err)
	}

	if raw, err := json.Marshal(signs); err == nil {
		if err := s.cache.SetBytes(ctx, signsCacheKey, raw, s.cfg.CacheTTL); err != nil {
			s.log.WarnContext(ctx, "sign cache write failed", slog.String("error", err.Error()))
		}
	}
	return signs, nil
}

// InvalidateSigns drops the cached sign list. Called after the catalogue is
// reseeded.
func (s *Service) InvalidateSigns(ctx context.Context) error {
	return s.cache.Delete(ctx, signsCacheKey)
}

// GetSign returns one sign by id.
func (s *Service) GetSign(ctx context.Context, id string) (*domain.TrafficSign, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "required")
	}
	return s.signs.GetByID(ctx, id)
}

// SignsByIDs returns the signs with the given ids in catalogue order.
// Unknown ids are skipped.
func (s *Service) SignsByIDs(ctx context.Context, ids []string) ([]domain.TrafficSign, error) {
	if len(ids) == 0 {
		return []domain.TrafficSign{}, nil
	}
	return s.signs.GetByIDs(ctx, ids)
}

// CountSigns returns the catalogue size.
func (s *Service) CountSigns(ctx context.Context) (int, error) {
	return s.signs.Count(ctx)
}

// RandomSigns returns up to n distinct signs in random order.
func (s *Service) RandomSigns(ctx context.Context, n int) ([]domain.TrafficSign, error) {
	if n < 1 || n > s.cfg.MaxRandomSigns {
		return nil, domain.NewValidationError("count", fmt.Sprintf("must be between 1 and %d", s.cfg.MaxRandomSigns))
	}

	all, err := s.ListSigns(ctx)
	if err != nil {
		return nil, err
	}
	shuffled := append([]domain.TrafficSign(nil), all...)

	s.rngMu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	s.rngMu.Unlock()

	return shuffled[:min(n, len(shuffled))], nil
}

// ListCategories returns the question categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// ListQuestions returns the question bank, optionally limited to a category.
func (s *Service) ListQuestions(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error) {
	return s.questions.List(ctx, categoryID)
}
