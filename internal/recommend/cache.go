package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Cache stores recommendation results per key.
type Cache interface {
	// Get returns the cached items and whether the key was present.
	Get(ctx context.Context, key string) ([]Item, bool, error)

	// Set stores items under key for ttl.
	Set(ctx context.Context, key string, items []Item, ttl time.Duration) error
}

// NopCache never stores anything.
type NopCache struct{}

// Get implements Cache.
func (NopCache) Get(context.Context, string) ([]Item, bool, error) { return nil, false, nil }

// Set implements Cache.
func (NopCache) Set(context.Context, string, []Item, time.Duration) error { return nil }

// RedisCache is a Cache backed by Redis string keys holding JSON.
type RedisCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisClient connects to the Redis server named by a redis:// URL.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, logger zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger.With().Str("component", "recommend_cache").Logger(),
	}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]Item, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to read cache")
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return nil, false, nil
	}

	return items, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, items []Item, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to write cache")
		return fmt.Errorf("failed to write cache: %w", err)
	}

	return nil
}
