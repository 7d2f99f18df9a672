package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrbooshehri/folio/internal/logging"
)

const redisKeyPrefix = "folio:source:"

// RedisCache shares source loads between processes through Redis
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to addr
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// NewRedisCache wraps rdb with a per-entry TTL
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// RedisKey formats the cache key for a source
func RedisKey(source string) string {
	return redisKeyPrefix + source
}

// Get returns a cached entry. Redis failures are logged and treated as misses.
func (c *RedisCache) Get(ctx context.Context, key string) (Entry, bool) {
	data, err := c.rdb.Get(ctx, RedisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Warnf("redis cache get %s: %v", key, err)
		}
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logging.Warnf("redis cache entry %s is corrupt: %v", key, err)
		return Entry{}, false
	}
	return entry, true
}

// Set stores entry with the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.rdb.Set(ctx, RedisKey(key), data, c.ttl).Err()
}

// Evict removes key
func (c *RedisCache) Evict(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, RedisKey(key)).Err()
}

// Ping checks connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the client
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
