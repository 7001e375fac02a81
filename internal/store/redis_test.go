package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis starts an in-memory Redis server and returns a
// RedisStore backed by it.
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_StringRoundTrip(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := s.GetString(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetString(ctx, KeyToken, "T1"))
	got, err := s.GetString(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "T1", got)
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.SetString(ctx, KeyToken, "T1"))
	assert.True(t, mr.Exists("pasarloak:token"))
}

func TestRedisStore_JSONRoundTrip(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, KeyFavorites, []int64{1, 2, 3}))
	var ids []int64
	require.NoError(t, s.GetJSON(ctx, KeyFavorites, &ids))
	assert.Equal(t, []int64{1, 2, 3}, ids)

	var missing []int64
	assert.ErrorIs(t, s.GetJSON(ctx, "nope", &missing), ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.SetString(ctx, KeyUser, `{"id":7}`))
	require.NoError(t, s.Delete(ctx, KeyUser))
	_, err := s.GetString(ctx, KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)
}
