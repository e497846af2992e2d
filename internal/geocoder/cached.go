package geocoder

import (
	"context"

	"github.com/jengzang/kerbside-backend-go/internal/logger"
	"github.com/jengzang/kerbside-backend-go/internal/metrics"
	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// Cached puts an LRU and an optional Redis tier in front of another Geocoder.
// Only resolved points are cached, so a miss is retried on the next query.
type Cached struct {
	inner Geocoder
	lru   *LRU
	redis *RedisCache
}

// NewCached wraps inner. redis may be nil.
func NewCached(inner Geocoder, lru *LRU, redis *RedisCache) *Cached {
	return &Cached{inner: inner, lru: lru, redis: redis}
}

// Geocode implements Geocoder, checking memory then Redis before the upstream
func (c *Cached) Geocode(ctx context.Context, query string) (models.GeoPoint, bool, error) {
	key := NormalizeQuery(query)
	if key == "" {
		return models.GeoPoint{}, false, nil
	}

	if p, ok := c.lru.Get(key); ok {
		metrics.GeocodeCacheTotal.WithLabelValues("memory", "hit").Inc()
		return p, true, nil
	}
	metrics.GeocodeCacheTotal.WithLabelValues("memory", "miss").Inc()

	if c.redis != nil {
		p, ok, err := c.redis.Get(ctx, key)
		switch {
		case err != nil:
			// redis is best effort; fall through to the upstream
			logger.L().Warn("geocode_cache_error", "tier", "redis", "err", err)
		case ok:
			metrics.GeocodeCacheTotal.WithLabelValues("redis", "hit").Inc()
			c.lru.Set(key, p)
			return p, true, nil
		default:
			metrics.GeocodeCacheTotal.WithLabelValues("redis", "miss").Inc()
		}
	}

	p, ok, err := c.inner.Geocode(ctx, query)
	if err != nil || !ok {
		return p, ok, err
	}

	c.lru.Set(key, p)
	if c.redis != nil {
		if err := c.redis.Set(ctx, key, p); err != nil {
			logger.L().Warn("geocode_cache_error", "tier", "redis", "err", err)
		}
	}
	return p, true, nil
}
