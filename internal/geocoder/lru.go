package geocoder

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// LRU is an in-process cache of resolved points keyed by normalized query, with a TTL per entry
type LRU struct {
	cache *expirable.LRU[string, models.GeoPoint]
}

// NewLRU creates a cache holding at most capacity entries
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU{cache: expirable.NewLRU[string, models.GeoPoint](capacity, nil, ttl)}
}

// Get returns the point cached for k, false when absent or expired
func (c *LRU) Get(k string) (models.GeoPoint, bool) {
	return c.cache.Get(k)
}

// Set caches v under k, evicting the least recently used entry when full
func (c *LRU) Set(k string, v models.GeoPoint) {
	c.cache.Add(k, v)
}

// Len returns the number of entries, expired ones not yet purged included
func (c *LRU) Len() int {
	return c.cache.Len()
}
