package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
)

func TestRedisKey(t *testing.T) {
	if got := RedisKey("static"); got != "folio:source:static" {
		t.Errorf("RedisKey = %q", got)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("FOLIO_TEST_REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("set FOLIO_TEST_REDIS_ADDR to run redis integration tests")
	}

	ctx := context.Background()
	cache := NewRedisCache(NewRedisClient(addr), time.Minute)
	defer cache.Close()

	key := "test-" + time.Now().Format("150405.000000")
	if err := cache.Set(ctx, key, Entry{Projects: []models.Project{{ID: "alpha"}}}); err != nil {
		t.Fatal(err)
	}
	got, ok := cache.Get(ctx, key)
	if !ok || len(got.Projects) != 1 || got.Projects[0].ID != "alpha" {
		t.Fatalf("got %v %+v", ok, got)
	}
	if err := cache.Evict(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(ctx, key); ok {
		t.Error("entry survived eviction")
	}
}

func TestPostgresSourceLoad(t *testing.T) {
	dsn := os.Getenv("FOLIO_TEST_POSTGRES_DSN")
	if testing.Short() || dsn == "" {
		t.Skip("set FOLIO_TEST_POSTGRES_DSN to run postgres integration tests")
	}

	ctx := context.Background()
	pool, err := NewPostgresPool(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	src := NewPostgresSource(pool)
	if err := src.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	id := "itest-" + time.Now().Format("150405.000000")
	if err := src.Upsert(ctx, id, map[string]any{"id": id, "title": "Integration"}); err != nil {
		t.Fatal(err)
	}
	defer src.Delete(ctx, id)

	records, err := src.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range records {
		if m, ok := r.(map[string]any); ok && m["id"] == id {
			found = true
		}
	}
	if !found {
		t.Errorf("record %s not loaded", id)
	}
}
