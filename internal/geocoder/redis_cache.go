package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

const redisKeyPrefix = "kerbside:geocode:"

// RedisCache shares resolved points between server instances
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis creates a client for addr, or returns nil when addr is empty
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached point for key, false on a miss
func (r *RedisCache) Get(ctx context.Context, key string) (models.GeoPoint, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.GeoPoint{}, false, nil
	}
	if err != nil {
		return models.GeoPoint{}, false, fmt.Errorf("redis get: %w", err)
	}
	var p models.GeoPoint
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.GeoPoint{}, false, fmt.Errorf("redis decode: %w", err)
	}
	return p, true, nil
}

// Set stores p under key with the cache TTL
func (r *RedisCache) Set(ctx context.Context, key string, p models.GeoPoint) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
