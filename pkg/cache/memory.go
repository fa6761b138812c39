package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const defaultMemoryTTL = 24 * time.Hour

// MemoryCache is an in-process Client used when Redis is not configured and in tests.
type MemoryCache struct {
	mu    sync.Mutex
	store map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	value      string
	expiration time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]cacheItem),
		now:   time.Now,
	}
}

// lookup returns a live item, evicting it when expired. Callers hold mu.
func (m *MemoryCache) lookup(key string) (cacheItem, bool) {
	item, ok := m.store[key]
	if !ok {
		return cacheItem{}, false
	}
	if m.now().After(item.expiration) {
		delete(m.store, key)
		return cacheItem{}, false
	}
	return item, true
}

// Get retrieves a value from memory cache.
func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return "", ErrMiss
	}
	return item.value, nil
}

// Set stores a value. A zero expiration keeps the item for a day.
func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		str = string(data)
	}

	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}

	m.mu.Lock()
	m.store[key] = cacheItem{value: str, expiration: m.now().Add(expiration)}
	m.mu.Unlock()
	return nil
}

// Delete removes keys from memory cache.
func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.store, key)
	}
	return nil
}

// Exists counts how many of keys are live.
func (m *MemoryCache) Exists(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, key := range keys {
		if _, ok := m.lookup(key); ok {
			count++
		}
	}
	return count, nil
}

// Increment bumps an integer counter, keeping its current expiration.
func (m *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		m.store[key] = cacheItem{value: "1", expiration: m.now().Add(defaultMemoryTTL)}
		return 1, nil
	}

	current, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value at %q is not an integer", key)
	}
	current++
	item.value = strconv.FormatInt(current, 10)
	m.store[key] = item
	return current, nil
}

// Expire sets an expiration on a key.
func (m *MemoryCache) Expire(_ context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return ErrMiss
	}
	item.expiration = m.now().Add(expiration)
	m.store[key] = item
	return nil
}

// Close drops every entry.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	m.store = make(map[string]cacheItem)
	m.mu.Unlock()
	return nil
}
