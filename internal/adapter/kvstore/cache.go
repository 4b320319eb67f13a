package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a shared byte cache under <prefix>:cache:<key>.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a Redis-backed cache.
func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// GetBytes returns the cached value and whether it was present.
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.prefix+":cache:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, true, nil
}

// SetBytes stores value for ttl.
func (c *Cache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+":cache:"+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete drops a cached key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+":cache:"+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) GetBytes(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NopCache) SetBytes(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, string) error                          { return nil }
