// Package cache provides PlanCache implementations backed by Redis or process memory.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simaogato/wealthflow-payoff/internal/log"
)

// RedisCache stores serialized plans in Redis
type RedisCache struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisCache connects to addr and verifies the server answers
func NewRedisCache(ctx context.Context, addr string, logger *log.Logger) (*RedisCache, error) {
	if logger == nil {
		logger = log.Discard()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return &RedisCache{
		client: rdb,
		logger: logger.WithComponent(log.ComponentCache),
	}, nil
}

// Get reports a miss for absent keys and for any Redis failure
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "redis get failed", "key", key, log.FieldError, err.Error())
		}
		return nil, false
	}
	return val, true
}

// Set stores value under key. A zero ttl keeps the key until evicted.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the client's connections
func (r *RedisCache) Close() error {
	return r.client.Close()
}
