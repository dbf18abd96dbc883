package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry represents a cached item
type Entry[T any] struct {
	Value     T
	CreatedAt time.Time
}

// EvictionPolicy reports whether an entry created at the given time may
// still be served.
type EvictionPolicy func(createdAt time.Time) bool

// KeepForever returns a policy that never evicts. This is the default:
// entries live for the lifetime of the process.
func KeepForever() EvictionPolicy {
	return func(time.Time) bool { return true }
}

// ExpireAfter returns a policy that evicts entries older than ttl.
func ExpireAfter(ttl time.Duration) EvictionPolicy {
	return func(createdAt time.Time) bool {
		return time.Since(createdAt) < ttl
	}
}

// Cache provides a generic in-process memoization mechanism.
// Concurrent callers of GetOrSet for a key with no resolved value yet
// converge onto a single invocation of the loader function, so a burst
// of identical requests produces one network transaction.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
	policy  EvictionPolicy
	group   singleflight.Group
}

// New creates a cache governed by the given eviction policy.
func New[T any](policy EvictionPolicy) *Cache[T] {
	if policy == nil {
		policy = KeepForever()
	}
	return &Cache[T]{
		entries: make(map[string]Entry[T]),
		policy:  policy,
	}
}

// GetOrSet retrieves a value from cache or stores it if it doesn't exist
// The forceUpdate parameter can be used to ignore the cache and fetch fresh data
func (c *Cache[T]) GetOrSet(key string, fn func() (T, error), forceUpdate bool) (T, error) {
	if !forceUpdate {
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A caller queued behind the winning flight re-checks the store
		// so it reuses the entry the winner just wrote.
		if !forceUpdate {
			if value, ok := c.lookup(key); ok {
				return value, nil
			}
		}

		value, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = Entry[T]{Value: value, CreatedAt: time.Now()}
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

func (c *Cache[T]) lookup(key string) (T, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.policy(entry.CreatedAt) {
		var zero T
		return zero, false
	}
	return entry.Value, true
}

// Delete removes a single cached entry
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all cached entries
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry[T])
	c.mu.Unlock()
}
