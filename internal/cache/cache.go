// Package cache provides an optional Redis fast path for short-code
// resolution. The cache only stores the code→URL mapping; visit counting
// always goes through the database.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const urlTTL = time.Hour

// Resolver caches short_code → destination URL. A nil *Resolver is valid and
// behaves as a permanent miss, so callers never need to branch on whether
// Redis is configured.
type Resolver struct {
	rdb *redis.Client
}

// New connects to Redis at addr. It returns nil (cache disabled) when addr is
// empty, and an error when Redis is configured but unreachable.
func New(ctx context.Context, addr, password string, db int) (*Resolver, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Resolver{rdb: rdb}, nil
}

func key(code string) string { return "url:" + code }

// GetURL returns the cached destination URL for code, if any.
func (c *Resolver) GetURL(ctx context.Context, code string) (string, bool) {
	if c == nil {
		return "", false
	}
	url, err := c.rdb.Get(ctx, key(code)).Result()
	if err != nil {
		return "", false
	}
	return url, true
}

// SetURL caches the destination URL for code. Errors are ignored; the cache
// is best effort.
func (c *Resolver) SetURL(ctx context.Context, code, url string) {
	if c == nil {
		return
	}
	_ = c.rdb.Set(ctx, key(code), url, urlTTL).Err()
}

// Invalidate drops the cached entry for code. Called when a link item is
// updated or deleted so the redirect path never serves a stale URL past the
// next lookup.
func (c *Resolver) Invalidate(ctx context.Context, code string) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, key(code)).Err()
}

// Close releases the underlying Redis connection.
func (c *Resolver) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
