// Package cache provides a small in-process LRU cache with a per-cache TTL.
// The SDK uses it to memoize hub schema lookups per client instance; nothing in
// this package is shared globally, so each test can construct a fresh cache.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTL is a bounded, expiring cache. Methods are safe for concurrent use.
type TTL[V any] struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	ll    *list.List               // front = most recently used
	items map[string]*list.Element // key -> element
	now   func() time.Time         // injectable clock for tests
}

type entry[V any] struct {
	key    string
	value  V
	expiry time.Time // zero means no expiry
}

// Config groups constructor options for NewTTL.
type Config struct {
	// Capacity bounds the number of entries; least recently used entries are
	// evicted past it. Defaults to 128.
	Capacity int
	// TTL is applied to every entry on Set. Zero or negative disables expiry.
	TTL time.Duration
	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewTTL creates an empty cache with the given config.
func NewTTL[V any](cfg Config) *TTL[V] {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 128
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &TTL[V]{
		cap:   capacity,
		ttl:   cfg.TTL,
		ll:    list.New(),
		items: make(map[string]*list.Element),
		now:   nowFn,
	}
}

// Get returns the value for key if present and not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := el.Value.(*entry[V])
	if c.expired(ent) {
		c.remove(el)
		return zero, false
	}
	c.ll.MoveToFront(el)
	return ent.value, true
}

// Set inserts or refreshes a value, stamping it with the cache TTL.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if c.ttl > 0 {
		exp = c.now().Add(c.ttl)
	}

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.expiry = exp
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry[V]{key: key, value: value, expiry: exp})
	c.items[key] = el
	for c.ll.Len() > c.cap {
		back := c.ll.Back()
		if back == nil {
			break
		}
		c.remove(back)
	}
}

// Delete removes key, reporting whether it was present.
func (c *TTL[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(el)
	return true
}

// Len returns the number of entries, counting any not yet swept expired ones.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *TTL[V]) expired(e *entry[V]) bool {
	return !e.expiry.IsZero() && c.now().After(e.expiry)
}

// remove must be called with c.mu held.
func (c *TTL[V]) remove(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
