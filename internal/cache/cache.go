// Package cache wraps Redis as a disposable projection store. Entries are
// written once and invalidated by explicit delete; the backing server may be
// unreachable at any time without affecting correctness for callers.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Outcome classifies a cache lookup. A miss (key absent) and an unreachable
// backend are distinct branches even though callers fall back to the
// authoritative store in both cases.
type Outcome int

const (
	// Hit means the key was present and the value is usable.
	Hit Outcome = iota
	// Miss means the backend answered but the key was absent.
	Miss
	// Unavailable means the backend could not answer.
	Unavailable
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache is a thin client over a single Redis instance.
type Cache struct {
	client *redis.Client
}

// New creates a Cache. The connection is verified lazily; an unreachable
// server degrades lookups to Unavailable instead of failing construction.
func New(cfg Config) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Lookup reads a key and classifies the result.
func (c *Cache) Lookup(ctx context.Context, key string) (string, Outcome) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", Miss
		}
		return "", Unavailable
	}
	return val, Hit
}

// Store writes a value with no expiration. Entries live until explicitly
// invalidated by a mutation.
func (c *Cache) Store(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Invalidate deletes a key. Deleting an absent key is not an error.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}

// Ping checks the backend is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
