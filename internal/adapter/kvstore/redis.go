package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
)

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg config.KVConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Redis stores each value under <prefix>:kv:<user>:<key> and tracks the
// user's keys in the set <prefix>:kv:<user>:keys.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed store.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) valueKey(userID uuid.UUID, key string) string {
	return r.prefix + ":kv:" + userID.String() + ":" + key
}

func (r *Redis) indexKey(userID uuid.UUID) string {
	return r.prefix + ":kv:" + userID.String() + ":keys"
}

// Get returns the value and whether it was present.
func (r *Redis) Get(ctx context.Context, userID uuid.UUID, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.valueKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes the value without expiry.
func (r *Redis) Set(ctx context.Context, userID uuid.UUID, key, value string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.valueKey(userID, key), value, 0)
		p.SAdd(ctx, r.indexKey(userID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Remove deletes one key. Removing an absent key is not an error.
func (r *Redis) Remove(ctx context.Context, userID uuid.UUID, key string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.valueKey(userID, key))
		p.SRem(ctx, r.indexKey(userID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key recorded for the user.
func (r *Redis) Clear(ctx context.Context, userID uuid.UUID) error {
	keys, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}

	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, r.valueKey(userID, k))
	}
	del = append(del, r.indexKey(userID))

	if err := r.client.Del(ctx, del...).Err(); err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("kvstore.Ping: %w", err)
	}
	return nil
}
