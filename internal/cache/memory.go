package cache

import (
	"container/list"
	"context"
	"sync"
)

// Memory is a bounded in-process Cache. When the entry count exceeds the
// configured capacity the least recently used entry is evicted; eviction is
// safe because a miss is always recoverable from the store.
type Memory[T any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type memoryEntry[T any] struct {
	key   string
	value T
}

// NewMemory creates a Memory cache holding at most capacity entries.
// A non-positive capacity falls back to 1024.
func NewMemory[T any](capacity int) *Memory[T] {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Memory[T]{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns a shallow copy of the cached value so callers can mutate the
// result without corrupting the cache.
func (c *Memory[T]) Get(ctx context.Context, key string) (*T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	value := elem.Value.(*memoryEntry[T]).value
	return &value, true
}

func (c *Memory[T]) Put(ctx context.Context, key string, value *T) {
	if value == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*memoryEntry[T]).value = *value
		c.order.MoveToFront(elem)
		return
	}
	c.entries[key] = c.order.PushFront(&memoryEntry[T]{key: key, value: *value})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry[T]).key)
	}
}

func (c *Memory[T]) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

func (c *Memory[T]) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}
