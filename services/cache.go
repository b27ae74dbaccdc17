package services

import (
	"context"
	"sync"
	"time"

	"github.com/campeloneto1/tripshare-sub000/storage"
)

// Cache is the memoization boundary: key-based get/set/invalidate with expiry.
// Redis backs it in production, a map in tests and when Redis is unavailable.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
	Invalidate(key string)
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it.
func GetOrCompute(c Cache, key string, ttl time.Duration, fn func() (string, error)) (string, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := fn()
	if err != nil {
		return "", err
	}
	c.Set(key, value, ttl)
	return value, nil
}

type RedisCache struct{}

var cacheContext = context.Background()

func (RedisCache) Get(key string) (string, bool) {
	value, err := storage.Redis.Get(cacheContext, key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (RedisCache) Set(key string, value string, ttl time.Duration) {
	storage.Redis.Set(cacheContext, key, value, ttl)
}

func (RedisCache) Invalidate(key string) {
	storage.Redis.Del(cacheContext, key)
}

// MemoryCache is a process-local fallback with the same semantics.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryCacheEntry{}}
}

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(key string, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
