// Package cache holds the Redis-backed availability grid cache, one key
// per date covering the full floor.  The booking write path and the sweep
// invalidate a date's key synchronously after every successful mutation,
// so a cached grid can never outlive the ledger state it was rendered
// from.  A nil Redis client disables the cache entirely.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for the grid.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New returns a Cache; rdb may be nil, in which case every lookup misses
// and writes are dropped.
func New(rdb *redis.Client, ttl time.Duration, prefix string) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if prefix == "" {
		prefix = "rentalps"
	}
	return &Cache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *Cache) key(date time.Time) string {
	return c.prefix + ":avail:" + date.Format("2006-01-02")
}

// Get returns the cached grid payload for a date, or (nil, false) on miss
// or any Redis error.
func (c *Cache) Get(ctx context.Context, date time.Time) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, c.key(date)).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

// Set stores a rendered grid for a date.  Failures are logged and ignored;
// the projector recomputes on the next request anyway.
func (c *Cache) Set(ctx context.Context, date time.Time, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(date), payload, c.ttl).Err(); err != nil {
		log.Printf("availability-cache: set failed: %v", err)
	}
}

// InvalidateDate drops the cached grid for a date.  Called synchronously
// inside every successful booking create, status change and delete.
func (c *Cache) InvalidateDate(ctx context.Context, date time.Time) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(date)).Err(); err != nil {
		log.Printf("availability-cache: invalidate failed: %v", err)
	}
}
