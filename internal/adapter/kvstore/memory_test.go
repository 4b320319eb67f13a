package kvstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/kvstore"
)

// store is the contract both backends satisfy.
type store interface {
	Get(ctx context.Context, userID uuid.UUID, key string) (string, bool, error)
	Set(ctx context.Context, userID uuid.UUID, key, value string) error
	Remove(ctx context.Context, userID uuid.UUID, key string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

func exerciseStore(t *testing.T, s store) {
	t.Helper()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, ok, err := s.Get(ctx, alice, kvstore.KeyUserEmail)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, alice, kvstore.KeyUserEmail, "alice@example.com"))
	require.NoError(t, s.Set(ctx, alice, kvstore.KeyIsLoggedIn, "true"))
	require.NoError(t, s.Set(ctx, alice, kvstore.KeyFavorites, `["stop"]`))
	require.NoError(t, s.Set(ctx, bob, kvstore.KeyUserEmail, "bob@example.com"))

	v, ok, err := s.Get(ctx, alice, kvstore.KeyUserEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice@example.com", v)

	require.NoError(t, s.Set(ctx, alice, kvstore.KeyUserEmail, "alice@new.example"))
	v, _, _ = s.Get(ctx, alice, kvstore.KeyUserEmail)
	assert.Equal(t, "alice@new.example", v)

	require.NoError(t, s.Remove(ctx, alice, kvstore.KeyIsLoggedIn))
	require.NoError(t, s.Remove(ctx, alice, "neverSet"))
	_, ok, _ = s.Get(ctx, alice, kvstore.KeyIsLoggedIn)
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx, alice))
	for _, k := range []string{kvstore.KeyUserEmail, kvstore.KeyFavorites} {
		_, ok, err := s.Get(ctx, alice, k)
		require.NoError(t, err)
		assert.False(t, ok, "key %s survived Clear", k)
	}

	v, ok, err = s.Get(ctx, bob, kvstore.KeyUserEmail)
	require.NoError(t, err)
	assert.True(t, ok, "Clear leaked into another user")
	assert.Equal(t, "bob@example.com", v)
}

func TestMemory(t *testing.T) {
	t.Parallel()
	exerciseStore(t, kvstore.NewMemory())
}

func TestNopCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var c kvstore.NopCache

	require.NoError(t, c.SetBytes(ctx, "signs", []byte("x"), 0))
	_, ok, err := c.GetBytes(ctx, "signs")
	require.NoError(t, err)
	assert.False(t, ok)
}
