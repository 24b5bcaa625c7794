package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// LRUCache is an in-process Store. Entries expire after ttl and the least
// recently used entry is evicted once maxSize is exceeded. Generations
// survive eviction and expiry so a stale write is refused even when the
// entry itself is gone.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	entries     map[string]*list.Element
	recency     *list.List
	generations map[string]int64
}

var (
	_ Store[int] = (*LRUCache[int])(nil)
	_ Cleaner    = (*LRUCache[int])(nil)
)

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache[T]{
		maxSize:     maxSize,
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]*list.Element),
		recency:     list.New(),
		generations: make(map[string]int64),
	}
}

func (c *LRUCache[T]) Get(_ context.Context, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if c.now().After(e.expiresAt) {
		c.unlink(elem)
		return zero, false
	}
	c.recency.MoveToFront(elem)
	return e.value, true
}

func (c *LRUCache[T]) Set(_ context.Context, key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, data)
}

func (c *LRUCache[T]) Generation(_ context.Context, key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

func (c *LRUCache[T]) SetIfGeneration(_ context.Context, key string, data T, gen int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		return false
	}
	c.store(key, data)
	return true
}

func (c *LRUCache[T]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	if elem, ok := c.entries[key]; ok {
		c.unlink(elem)
	}
}

// store inserts or refreshes key. c.mu must be held.
func (c *LRUCache[T]) store(key string, data T) {
	e := &entry[T]{key: key, value: data, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.entries[key]; ok {
		elem.Value = e
		c.recency.MoveToFront(elem)
		return
	}

	c.entries[key] = c.recency.PushFront(e)
	for c.recency.Len() > c.maxSize {
		c.unlink(c.recency.Back())
	}
}

func (c *LRUCache[T]) unlink(elem *list.Element) {
	delete(c.entries, elem.Value.(*entry[T]).key)
	c.recency.Remove(elem)
}

// CleanExpired drops every expired entry and reports how many went.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.recency.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			c.unlink(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Size returns the number of cached entries.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
