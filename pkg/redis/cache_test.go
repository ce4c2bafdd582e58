package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheSetGet(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCache(client, "tasks", time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "all", cachedValue{Name: "a", Count: 2}))
	assert.True(t, mr.Exists("tasks::all"))
	assert.Equal(t, time.Minute, mr.TTL("tasks::all"))

	var got cachedValue
	found, err := cache.Get(ctx, "all", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Name: "a", Count: 2}, got)
}

func TestCacheGetMissing(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCache(client, "tasks", time.Minute)

	var got cachedValue
	found, err := cache.Get(context.Background(), "missing", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCacheGetCorruptValue(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCache(client, "tasks", time.Minute)
	require.NoError(t, mr.Set("tasks::all", "{not json"))

	var got cachedValue
	found, err := cache.Get(context.Background(), "all", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCacheDefaultTTLAndIncr(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCache(client, "tasks", 0)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "all", cachedValue{Name: "a"}))
	assert.Equal(t, client.GetConfig().DefaultCacheTTL, mr.TTL("tasks::all"))

	value, err := cache.Incr(ctx, "generation")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
	value, err = cache.Incr(ctx, "generation")
	require.NoError(t, err)
	assert.Equal(t, int64(2), value)
	assert.Equal(t, time.Duration(0), mr.TTL("tasks::generation"))

	var generation int64
	found, err := cache.Get(ctx, "generation", &generation)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), generation)

}

func TestCacheKeyWithoutName(t *testing.T) {
	_, client := newTestClient(t)
	assert.Equal(t, "plain", NewCache(client, "", time.Minute).Key("plain"))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewRedisConfig().Validate())
	assert.Error(t, NewRedisConfig().WithHost("").Validate())
	assert.Error(t, NewRedisConfig().WithPort(0).Validate())
	assert.Error(t, NewRedisConfig().WithDatabase(16).Validate())
	assert.Equal(t, "cache:6380", NewRedisConfig().WithHost("cache").WithPort(6380).Addr())
}

func TestHealthCheck(t *testing.T) {
	mr, client := newTestClient(t)
	checker := NewHealthChecker(client)

	check := checker.HealthCheck(context.Background())
	assert.Equal(t, StatusUp, check.Status)
	assert.Equal(t, mr.Host(), check.Details["host"])

	mr.Close()
	check = checker.HealthCheck(context.Background())
	assert.Equal(t, StatusDown, check.Status)
	assert.NotEmpty(t, check.Details["message"])
}
