package dataloader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	dl "github.com/heartmarshall/roadsigns-backend/internal/transport/dataloader"
)

type mockSignSource struct {
	mu     sync.Mutex
	signs  map[string]domain.TrafficSign
	err    error
	calls  int
	lastIn []string
}

func (m *mockSignSource) SignsByIDs(_ context.Context, ids []string) ([]domain.TrafficSign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastIn = append([]string(nil), ids...)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.TrafficSign, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.signs[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func newSource(ids ...string) *mockSignSource {
	m := &mockSignSource{signs: make(map[string]domain.TrafficSign, len(ids))}
	for _, id := range ids {
		m.signs[id] = domain.TrafficSign{ID: id, NameEnglish: "Sign " + id}
	}
	return m
}

func TestFromContext_ReturnsLoaders(t *testing.T) {
	t.Parallel()
	loaders := dl.NewLoaders(newSource())
	ctx := dl.WithLoaders(context.Background(), loaders)

	assert.Equal(t, loaders, dl.FromContext(ctx))
}

func TestFromContext_PanicsWhenMissing(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		dl.FromContext(context.Background())
	})
}

func TestMiddleware_InjectsLoaders(t *testing.T) {
	t.Parallel()
	mw := dl.Middleware(newSource())

	var gotLoaders *dl.Loaders
	handler := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotLoaders = dl.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, gotLoaders)
	assert.NotNil(t, gotLoaders.SignByID)
}

func TestSignLoader_BatchesConcurrentLoads(t *testing.T) {
	t.Parallel()
	src := newSource("stop", "yield", "no-entry")
	loaders := dl.NewLoaders(src)
	ctx := context.Background()

	t1 := loaders.SignByID.Load(ctx, "stop")
	t2 := loaders.SignByID.Load(ctx, "yield")

	s1, err := t1()
	require.NoError(t, err)
	s2, err := t2()
	require.NoError(t, err)

	assert.Equal(t, "stop", s1.ID)
	assert.Equal(t, "yield", s2.ID)
	assert.Equal(t, 1, src.calls)
	assert.ElementsMatch(t, []string{"stop", "yield"}, src.lastIn)
}

func TestSignLoader_MissingKeyIsNotFound(t *testing.T) {
	t.Parallel()
	loaders := dl.NewLoaders(newSource("stop"))

	_, err := loaders.SignByID.Load(context.Background(), "gone")()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSignLoader_PropagatesError(t *testing.T) {
	t.Parallel()
	src := newSource("stop")
	src.err = errors.New("db down")
	loaders := dl.NewLoaders(src)

	_, err := loaders.SignByID.Load(context.Background(), "stop")()
	assert.EqualError(t, err, "db down")
}

func TestLoadSigns_KeepsOrderAndSkipsMissing(t *testing.T) {
	t.Parallel()
	ctx := dl.WithLoaders(context.Background(), dl.NewLoaders(newSource("a", "b", "c")))

	got, err := dl.LoadSigns(ctx, []string{"c", "gone", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestLoadSigns_Empty(t *testing.T) {
	t.Parallel()
	ctx := dl.WithLoaders(context.Background(), dl.NewLoaders(newSource()))

	got, err := dl.LoadSigns(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadSigns_SourceError(t *testing.T) {
	t.Parallel()
	src := newSource("a")
	src.err = errors.New("db down")
	ctx := dl.WithLoaders(context.Background(), dl.NewLoaders(src))

	_, err := dl.LoadSigns(ctx, []string{"a"})
	assert.Error(t, err)
}
