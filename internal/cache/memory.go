package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process cache used when no Redis URL is configured.
// Values are stored JSON-encoded so both implementations behave the same.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	cached, found := c.store.Get(key)
	if !found {
		return false, nil
	}
	raw, ok := cached.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cached type %T for %s", cached, key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value. A zero ttl uses the cache's default expiration.
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, raw, ttl)
	return nil
}
