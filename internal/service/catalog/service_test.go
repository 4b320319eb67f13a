package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type signRepoMock struct {
	signs []domain.TrafficSign

	mu        sync.Mutex
	listCalls int
	ListErr   error
	SearchFn  func(q string) []domain.TrafficSign
}

func (m *signRepoMock) List(context.Context) ([]domain.TrafficSign, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.signs, nil
}

func (m *signRepoMock) GetByID(_ context.Context, id string) (*domain.TrafficSign, error) {
	for _, s := range m.signs {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *signRepoMock) GetByIDs(_ context.Context, ids []string) ([]domain.TrafficSign, error) {
	var out []domain.TrafficSign
	for _, s := range m.signs {
		for _, id := range ids {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *signRepoMock) Search(_ context.Context, q string) ([]domain.TrafficSign, error) {
	if m.SearchFn != nil {
		return m.SearchFn(q), nil
	}
	return nil, nil
}

func (m *signRepoMock) Count(context.Context) (int, error) { return len(m.signs), nil }

func (m *signRepoMock) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type questionRepoMock struct {
	ListFunc func(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error)
}

func (m *questionRepoMock) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error) {
	return m.ListFunc(ctx, categoryID)
}

type categoryRepoMock struct{}

func (categoryRepoMock) List(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: uuid.New(), Name: "Road Signs"}}, nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	GetErr  error
	SetErr  error
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	b, ok := c.data[key]
	return b, ok, nil
}

func (c *memCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testSigns() []domain.TrafficSign {
	return []domain.TrafficSign{
		{ID: "stop", NameEnglish: "Stop Sign", NameHindi: "रुकें", SortOrder: 1},
		{ID: "give-way", NameEnglish: "Give Way", NameHindi: "रास्ता दें", SortOrder: 2},
		{ID: "no-parking", NameEnglish: "No Parking", NameHindi: "पार्किंग निषेध", SortOrder: 3},
		{ID: "school", NameEnglish: "School Ahead", NameHindi: "आगे स्कूल", SortOrder: 4},
		{ID: "speed-limit", NameEnglish: "Speed Limit", NameHindi: "गति सीमा", SortOrder: 5},
	}
}

func newTestService(signs *signRepoMock, cache byteCache) *Service {
	return NewService(slog.Default(), signs, &questionRepoMock{
		ListFunc: func(context.Context, *uuid.UUID) ([]domain.QuizQuestion, error) { return nil, nil },
	}, categoryRepoMock{}, cache, config.CatalogConfig{
		CacheTTL:        time.Hour,
		SuggestionCount: 2,
		MaxRandomSigns:  50,
	})
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestListSigns_CachesAfterFirstRead(t *testing.T) {
	t.Parallel()

	repo := &signRepoMock{signs: testSigns()}
	cache := newMemCache()
	svc := newTestService(repo, cache)
	ctx := context.Background()

	first, err := svc.ListSigns(ctx)
	require.NoError(t, err)
	second, err := svc.ListSigns(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.ListCalls())
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, time.Hour, cache.ttls[signsCacheKey])

	require.NoError(t, svc.InvalidateSigns(ctx))
	_, err = svc.ListSigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.ListCalls())
}

func TestListSigns_CacheFailureFallsBack(t *testing.T) {
	t.Parallel()

	repo := &signRepoMock{signs: testSigns()}
	cache := newMemCache()
	cache.GetErr = errors.New("redis down")
	cache.SetErr = errors.New("redis down")
	svc := newTestService(repo, cache)

	got, err := svc.ListSigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestListSigns_CorruptEntryDropped(t *testing.T) {
	t.Parallel()

	repo := &signRepoMock{signs: testSigns()}
	cache := newMemCache()
	cache.data[signsCacheKey] = []byte("{not json")
	svc := newTestService(repo, cache)

	got, err := svc.ListSigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 1, cache.deletes)
	assert.Equal(t, 1, repo.ListCalls())
}

func TestListSigns_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	svc := newTestService(&signRepoMock{ListErr: boom}, newMemCache())
	_, err := svc.ListSigns(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGetSign(t *testing.T) {
	t.Parallel()

	svc := newTestService(&signRepoMock{signs: testSigns()}, newMemCache())
	ctx := context.Background()

	got, err := svc.GetSign(ctx, " stop ")
	require.NoError(t, err)
	assert.Equal(t, "Stop Sign", got.NameEnglish)

	_, err = svc.GetSign(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetSign(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSignsByIDs_Empty(t *testing.T) {
	t.Parallel()

	svc := newTestService(&signRepoMock{signs: testSigns()}, newMemCache())
	got, err := svc.SignsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRandomSigns(t *testing.T) {
	t.Parallel()

	svc := newTestService(&signRepoMock{signs: testSigns()}, newMemCache())
	ctx := context.Background()

	tests := []struct {
		name    string
		n       int
		wantLen int
		wantErr error
	}{
		{"subset", 3, 3, nil},
		{"more than catalogue", 10, 5, nil},
		{"zero", 0, 0, domain.ErrValidation},
		{"over max", 51, 0, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.RandomSigns(ctx, tt.n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			seen := map[string]bool{}
			for _, s := range got {
				assert.False(t, seen[s.ID])
				seen[s.ID] = true
			}
		})
	}
}

func TestSearchSigns(t *testing.T) {
	t.Parallel()

	signs := testSigns()
	repo := &signRepoMock{signs: signs, SearchFn: func(q string) []domain.TrafficSign {
		if q == "stop" {
			return signs[:1]
		}
		return nil
	}}
	svc := newTestService(repo, newMemCache())
	ctx := context.Background()

	t.Run("match", func(t *testing.T) {
		t.Parallel()
		res, err := svc.SearchSigns(ctx, "  STOP ")
		require.NoError(t, err)
		require.Len(t, res.Signs, 1)
		assert.Empty(t, res.Suggestions)
	})

	t.Run("empty query lists all", func(t *testing.T) {
		t.Parallel()
		res, err := svc.SearchSigns(ctx, "")
		require.NoError(t, err)
		assert.Len(t, res.Signs, 5)
	})

	t.Run("no match suggests", func(t *testing.T) {
		t.Parallel()
		res, err := svc.SearchSigns(ctx, "stpo sign")
		require.NoError(t, err)
		assert.Empty(t, res.Signs)
		require.NotEmpty(t, res.Suggestions)
		assert.LessOrEqual(t, len(res.Suggestions), 2)
		assert.Contains(t, res.Suggestions, "Stop Sign")
	})
}
