package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"distance-api/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const keyPrefix = "distance:"

// RedisCache stores computed distance responses in Redis under an expiring key.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Connect dials Redis and verifies the connection with a PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Get returns the cached response for key. A missing or expired key reports found=false with a nil error.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.DistanceResponse, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get %q: %w", key, err)
	}

	var resp models.DistanceResponse
	if err := msgpack.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	resp.Metadata.CalculatedAt = resp.Metadata.CalculatedAt.UTC()

	return &resp, true, nil
}

// Set stores value under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value *models.DistanceResponse, ttl time.Duration) error {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}
