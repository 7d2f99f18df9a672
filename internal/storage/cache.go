package storage

import (
	"context"
	"sync"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/validation"
)

// Entry is one cached source load
type Entry struct {
	Projects   []models.Project  `json:"projects"`
	Validation validation.Result `json:"validation"`
	LoadedAt   time.Time         `json:"loadedAt"`
}

// CacheStats reports cache usage
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Cache stores source loads in memory for a fixed TTL
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheItem
	stats   CacheStats
}

type cacheItem struct {
	entry   Entry
	expires time.Time
}

// NewCache creates a cache. A nil clock uses time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheItem),
	}
}

// Get returns a live entry; expired entries are evicted on access
func (c *Cache) Get(_ context.Context, key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return Entry{}, false
	}
	if !c.now().Before(item.expires) {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.Misses++
		return Entry{}, false
	}
	c.stats.Hits++
	return item.entry, true
}

// Set stores an entry for the cache TTL
func (c *Cache) Set(_ context.Context, key string, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheItem{entry: entry, expires: c.now().Add(c.ttl)}
	return nil
}

// Evict removes key
func (c *Cache) Evict(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
	}
	return nil
}

// EvictExpired drops every expired entry and returns how many were removed
func (c *Cache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.entries {
		if !now.Before(item.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	return removed
}

// Stats returns a snapshot of cache counters
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	return s
}
