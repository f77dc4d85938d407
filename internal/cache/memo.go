// Package cache provides a keyed, TTL-bounded memoization layer for fetch
// functions. Concurrent callers for the same key are collapsed into a single
// computation; error values are cached like successes so a known-bad key is
// not retried until its TTL expires.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry stores one computed value with its expiry.
type entry struct {
	value     interface{}
	err       error
	expiresAt time.Time
}

// Memo is a process-wide fetch cache. The zero value is not usable; create
// instances with New and inject them where needed so tests can hold
// independent caches.
type Memo struct {
	mu    sync.RWMutex
	items map[string]entry
	group singleflight.Group
	now   func() time.Time // injectable clock for testing
}

// New creates an empty cache.
func New() *Memo {
	return &Memo{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// Key builds a deterministic cache key from a function name and its
// arguments.
func Key(fn string, args ...string) string {
	return fn + "|" + strings.Join(args, "|")
}

// Do returns the cached value for key if it is still within ttl, otherwise
// invokes compute exactly once (also under concurrent callers) and caches
// the outcome — including a non-nil error — for the ttl window.
func (m *Memo) Do(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if v, err, ok := m.lookup(key); ok {
		return v, err
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have stored
		// the value between our lookup and the group admitting us.
		if v, err, ok := m.lookup(key); ok {
			return v, err
		}

		value, cerr := compute()

		m.mu.Lock()
		m.items[key] = entry{
			value:     value,
			err:       cerr,
			expiresAt: m.now().Add(ttl),
		}
		m.mu.Unlock()

		return value, cerr
	})
	return v, err
}

// lookup returns the cached value when present and unexpired. Expired
// entries are indistinguishable from absent ones.
func (m *Memo) lookup(key string) (interface{}, error, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, nil, false
	}
	return e.value, e.err, true
}

// Invalidate removes a single key.
func (m *Memo) Invalidate(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Clear removes all entries. Intended for test isolation.
func (m *Memo) Clear() {
	m.mu.Lock()
	m.items = make(map[string]entry)
	m.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// SetClock replaces the cache's clock. Test hook.
func (m *Memo) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}
