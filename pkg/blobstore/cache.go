package blobstore

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type cached struct {
	name      string
	data      []byte
	expiresAt time.Time
}

// CachedSource keeps recently fetched blobs in memory. Entries expire after
// the TTL and the least recently used entry is dropped once the cache is full.
type CachedSource struct {
	next       Source
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu    sync.Mutex
	items map[string]*list.Element
	lru   *list.List
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithTTL sets how long a fetched blob is served from memory. Zero or negative
// keeps entries until they are evicted. Default: 5 minutes.
func WithTTL(d time.Duration) CacheOption {
	return func(c *CachedSource) { c.ttl = d }
}

// WithMaxEntries bounds the number of cached blobs. Zero means unlimited.
// Default: 64.
func WithMaxEntries(n int) CacheOption {
	return func(c *CachedSource) { c.maxEntries = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedSource) { c.now = now }
}

// NewCachedSource wraps next.
func NewCachedSource(next Source, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		next:       next,
		ttl:        5 * time.Minute,
		maxEntries: 64,
		now:        time.Now,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if data, ok := c.get(name); ok {
		return data, nil
	}
	data, err := c.next.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	c.set(name, data)
	return data, nil
}

// Invalidate drops name so the next fetch goes to the wrapped source.
func (c *CachedSource) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[name]; ok {
		c.remove(elem)
	}
}

// Len returns the number of cached blobs, expired ones included.
func (c *CachedSource) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *CachedSource) get(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[name]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*cached)
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.remove(elem)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return e.data, true
}

func (c *CachedSource) set(name string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if elem, ok := c.items[name]; ok {
		e := elem.Value.(*cached)
		e.data, e.expiresAt = data, expiresAt
		c.lru.MoveToFront(elem)
		return
	}

	if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
	c.items[name] = c.lru.PushFront(&cached{name: name, data: data, expiresAt: expiresAt})
}

// remove must be called with c.mu held.
func (c *CachedSource) remove(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*cached).name)
}
