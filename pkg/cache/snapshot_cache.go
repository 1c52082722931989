package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TastingSnapshotKey holds the unscoped tasting listing.
const TastingSnapshotKey = "tasting:snapshot:all"

// ErrMiss is returned by SnapshotCache.Get when no snapshot is stored.
var ErrMiss = errors.New("cache miss")

// SnapshotCache stores one JSON-encoded collection under a fixed key.
// Readers treat it as a hint: a miss or decode failure falls back to the source.
type SnapshotCache[T any] struct {
	client *RedisClient
	key    string
	ttl    time.Duration
}

// NewSnapshotCache creates a SnapshotCache for key. A non-positive ttl stores
// entries without expiry.
func NewSnapshotCache[T any](r *RedisClient, key string, ttl time.Duration) *SnapshotCache[T] {
	return &SnapshotCache[T]{client: r, key: key, ttl: ttl}
}

// Get returns the stored collection or ErrMiss.
func (c *SnapshotCache[T]) Get(ctx context.Context) ([]T, error) {
	data, err := c.client.Client().Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", c.key, err)
	}
	return out, nil
}

// Set replaces the stored collection.
func (c *SnapshotCache[T]) Set(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", c.key, err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Client().Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the stored collection.
func (c *SnapshotCache[T]) Invalidate(ctx context.Context) error {
	if err := c.client.Client().Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
