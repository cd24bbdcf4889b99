// Package cache holds short-lived copies of catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores encoded values with a TTL.
type Cache interface {
	// Get returns the value and true on a live hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops every key containing pattern.
	Invalidate(ctx context.Context, pattern string) error
}

// GetJSON decodes a cached value into out. A value that no longer decodes counts as a miss.
func GetJSON(ctx context.Context, c Cache, key string, out any) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
