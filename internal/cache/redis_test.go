package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	product := &domain.Product{ID: 7, Name: "Plush owl", Price: 9.99}
	productJSON, _ := json.Marshal(product)
	require.NoError(t, mr.Set(cacheKey(7), string(productJSON)))

	result, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.ID)
	assert.Equal(t, "Plush owl", result.Name)
	assert.InDelta(t, 9.99, result.Price, 1e-9)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	result, err := cache.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cacheKey(7), `{"id":7,"na`))

	_, err := cache.Get(context.Background(), 7)
	require.ErrorContains(t, err, "unmarshal product failed")
}

func TestSet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	product := &domain.Product{ID: 7, Name: "Plush owl", Price: 9.99}
	require.NoError(t, cache.Set(context.Background(), product))

	stored, err := mr.Get(cacheKey(7))
	require.NoError(t, err)

	var storedProduct domain.Product
	require.NoError(t, json.Unmarshal([]byte(stored), &storedProduct))
	assert.Equal(t, "Plush owl", storedProduct.Name)
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), &domain.Product{ID: 7}))

	ttl := mr.TTL(cacheKey(7))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), &domain.Product{ID: 7}))
	assert.True(t, mr.Exists(cacheKey(7)))

	require.NoError(t, cache.Delete(context.Background(), 7))
	assert.False(t, mr.Exists(cacheKey(7)))

	// deleting a missing key is not an error
	assert.NoError(t, cache.Delete(context.Background(), 7))
}
