package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Client defines the interface for cache operations.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Close() error
}

// New returns a Redis-backed client when addr is set and an in-memory one otherwise.
func New(addr, password string, db int) (Client, error) {
	if addr == "" {
		return NewMemoryCache(), nil
	}
	return NewRedisClient(addr, password, db)
}

// SetJSON stores a JSON-serialized value.
func SetJSON(ctx context.Context, c Client, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, string(data), expiration)
}

// GetJSON retrieves and decodes a JSON value. A missing key yields ErrMiss.
func GetJSON(ctx context.Context, c Client, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Hit increments a windowed counter and returns the new count. The window starts on the first hit.
func Hit(ctx context.Context, c Client, key string, window time.Duration) (int64, error) {
	count, err := c.Increment(ctx, key)
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.Expire(ctx, key, window); err != nil {
			return count, err
		}
	}
	return count, nil
}
