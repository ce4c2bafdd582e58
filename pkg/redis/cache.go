package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores JSON values under keys namespaced as "<name>::<key>"
type Cache struct {
	client *Client
	name   string
	ttl    time.Duration
}

// NewCache creates a cache. A zero ttl falls back to the client's DefaultCacheTTL.
func NewCache(client *Client, name string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = client.config.DefaultCacheTTL
	}
	return &Cache{client: client, name: name, ttl: ttl}
}

// Key builds the full Redis key for key
func (c *Cache) Key(key string) string {
	if c.name == "" {
		return key
	}
	return c.name + "::" + key
}

// Get decodes the cached value into dest. found is false when the key is absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	data, found, err := c.client.GetBytes(ctx, c.Key(key))
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to deserialize cached value %s: %w", c.Key(key), err)
	}
	return true, nil
}

// Set serializes value as JSON and stores it with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return c.client.Set(ctx, c.Key(key), data, c.ttl)
}

// Incr increments the counter stored at key. Counters never expire.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, c.Key(key))
}
