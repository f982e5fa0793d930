package progress

import (
	"cluster-route-service/internal/domain"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisProgressStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisProgressStore(rdb, ""), mr
}

func TestRedisProgressStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	points := []domain.Coordinates{
		{Lon: 73.21668395742037, Lat: 22.25700591168219},
		{Lon: 73.22562220838351, Lat: 22.248142453217334},
	}
	for _, p := range points {
		require.NoError(t, store.Append(ctx, p))
	}

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, points, got)

	members, err := mr.List(DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "73.21668395742037,22.25700591168219", members[0])
}

func TestRedisProgressStoreLoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisProgressStoreClear(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, store.Append(ctx, domain.Coordinates{Lon: 1, Lat: 2}))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, mr.Exists(DefaultKey))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisProgressStoreRejectsCorruptMembers(t *testing.T) {
	store, mr := newTestStore(t)
	_, err := mr.Push(DefaultKey, "not-a-point")
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.Error(t, err)
}

func TestRedisProgressStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	err := store.Append(context.Background(), domain.Coordinates{Lon: 1, Lat: 2})
	assert.Error(t, err)
}

func TestDecodePoint(t *testing.T) {
	c, err := decodePoint("-0.5,51.25")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: -0.5, Lat: 51.25}, c)

	_, err = decodePoint("x,1")
	assert.Error(t, err)
	_, err = decodePoint("1,y")
	assert.Error(t, err)
}
