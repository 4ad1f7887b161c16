package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache is a small in-process cache for hot read paths.
type Cache struct {
	client *ristretto.Cache
}

// New builds a cache sized for roughly maxEntries items of uniform cost.
func New(maxEntries int64) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{client: client}, nil
}

// Set stores a value under the key for the given lifetime.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if c.client.SetWithTTL(key, value, 1, ttl) {
		// Wait until the value is actually visible to readers.
		c.client.Wait()
	}
}

// Get returns the cached value for the key, if any.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.client.Get(key)
}

// Delete drops the key from the cache.
func (c *Cache) Delete(key string) {
	c.client.Del(key)
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.client.Close()
}
