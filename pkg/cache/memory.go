package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// MemoryItem stores a cached value with its insertion and expiry times.
type MemoryItem struct {
	Value      interface{}
	InsertedAt time.Time
	ExpireAt   time.Time
}

// MemoryCache implements Service with an in-process map. Expired entries
// are treated as absent and deleted lazily on the next Get. When the map
// would exceed MaxEntries, the single oldest-inserted entry is evicted
// before the new one is stored. The bound is approximate FIFO, not LRU:
// reads do not reorder entries.
type MemoryCache struct {
	data       map[string]*MemoryItem
	mutex      sync.RWMutex
	maxEntries int
	defaultTTL time.Duration

	now func() time.Time // overridable in tests
}

// NewMemoryCache creates an in-memory TTL cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxEntries: 200,
		DefaultTTL: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		data:       make(map[string]*MemoryItem),
		maxEntries: cfg.MaxEntries,
		defaultTTL: cfg.DefaultTTL,
		now:        time.Now,
	}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = mc.defaultTTL
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxEntries {
		mc.evictOldest()
	}

	now := mc.now()
	mc.data[key] = &MemoryItem{
		Value:      value,
		InsertedAt: now,
		ExpireAt:   now.Add(expiration),
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	item, exists := mc.data[key]
	if !exists {
		return ErrCacheMiss
	}
	if mc.now().After(item.ExpireAt) {
		delete(mc.data, key)
		return ErrCacheMiss
	}

	return assign(dest, item.Value)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

// Len returns the current entry count, expired entries included.
func (mc *MemoryCache) Len() int {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return len(mc.data)
}

// Close is a no-op; the memory cache holds no external resources.
func (mc *MemoryCache) Close() error { return nil }

// evictOldest removes the entry with the earliest insertion time.
// Caller must hold the write lock.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time

	for key, item := range mc.data {
		if oldestKey == "" || item.InsertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = item.InsertedAt
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

// assign copies a cached value into dest, which must be a non-nil
// pointer to a compatible type.
func assign(dest, value interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("cache: dest must be a non-nil pointer, got %T", dest)
	}
	sv := reflect.ValueOf(value)
	if !sv.IsValid() {
		dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
		return nil
	}
	if !sv.Type().AssignableTo(dv.Elem().Type()) {
		return fmt.Errorf("cache: cannot assign %T to %T", value, dest)
	}
	dv.Elem().Set(sv)
	return nil
}
