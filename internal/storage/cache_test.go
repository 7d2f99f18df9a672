package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCacheTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(time.Minute, clock.Now)

	entry := Entry{Projects: []models.Project{{ID: "alpha"}}}
	if err := cache.Set(ctx, "static", entry); err != nil {
		t.Fatal(err)
	}

	got, ok := cache.Get(ctx, "static")
	if !ok || len(got.Projects) != 1 {
		t.Fatalf("expected hit, got %v %+v", ok, got)
	}

	clock.Advance(59 * time.Second)
	if _, ok := cache.Get(ctx, "static"); !ok {
		t.Error("entry expired early")
	}

	clock.Advance(time.Second)
	if _, ok := cache.Get(ctx, "static"); ok {
		t.Error("entry should expire at the TTL")
	}

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Evictions != 1 || stats.Entries != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCacheEvictExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(time.Minute, clock.Now)

	_ = cache.Set(ctx, "old", Entry{})
	clock.Advance(30 * time.Second)
	_ = cache.Set(ctx, "new", Entry{})
	clock.Advance(45 * time.Second)

	if n := cache.EvictExpired(); n != 1 {
		t.Errorf("evicted %d, want 1", n)
	}
	if _, ok := cache.Get(ctx, "new"); !ok {
		t.Error("fresh entry evicted")
	}
}

func TestCacheEvict(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(time.Hour, nil)

	_ = cache.Set(ctx, "a", Entry{})
	_ = cache.Set(ctx, "b", Entry{})
	_ = cache.Evict(ctx, "a")
	if _, ok := cache.Get(ctx, "a"); ok {
		t.Error("evicted entry still present")
	}

	_ = cache.Evict(ctx, "missing")
	if stats := cache.Stats(); stats.Entries != 1 || stats.Evictions != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
