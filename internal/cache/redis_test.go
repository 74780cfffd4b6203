package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanhub/barcode-aggregator/internal/config"
)

type testStruct struct {
	Barcode string
	Scans   int64
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	expected := testStruct{Barcode: "4600000000001", Scans: 7}
	err := cache.Set(ctx, "products:stats", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get(ctx, "products:stats", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "products:top", testStruct{Barcode: "1"}, time.Minute))
	require.NoError(t, cache.Set(ctx, "products:latest", testStruct{Barcode: "2"}, time.Minute))

	err := cache.Invalidate(ctx, "products:top", "products:latest")
	require.NoError(t, err)

	var out testStruct
	found, err := cache.Get(ctx, "products:top", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate_NoKeys(t *testing.T) {
	cache := setupTestCache(t)

	assert.NoError(t, cache.Invalidate(context.Background()))
}
