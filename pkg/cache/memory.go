package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	ttl      time.Duration
	capacity int
}

// WithTTL expires entries d after they were stored. Zero keeps them until
// evicted or cleared.
func WithTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.ttl = d
	}
}

// WithCapacity bounds the number of entries; the least recently used entry
// is evicted first. Zero means unbounded.
func WithCapacity(n int) MemoryOption {
	return func(c *memoryConfig) {
		c.capacity = n
	}
}

type memoryEntry[V any] struct {
	stored time.Time
	value  V
	key    string
}

// Memory is an in-process LRU cache. Expired entries are discarded lazily
// when looked up or when they reach the tail of the LRU list.
type Memory[V any] struct {
	items  map[string]*list.Element
	order  *list.List // front = most recently used
	now    func() time.Time
	cfg    memoryConfig
	mu     sync.Mutex
	closed bool
}

// NewMemory creates an empty Memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	m := &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&m.cfg)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}

	el, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := el.Value.(*memoryEntry[V])
	if m.expired(e) {
		m.remove(el)
		return zero, ErrNotFound
	}
	m.order.MoveToFront(el)
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry[V])
		e.value = value
		e.stored = m.now()
		m.order.MoveToFront(el)
		return nil
	}

	for m.cfg.capacity > 0 && m.order.Len() >= m.cfg.capacity {
		m.remove(m.order.Back())
	}
	m.items[key] = m.order.PushFront(&memoryEntry[V]{key: key, value: value, stored: m.now()})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.items[key]; ok {
		m.remove(el)
	}
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.items)
	m.order.Init()
	return nil
}

// Len reports the number of entries, including expired ones not yet
// discarded.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Close drops all entries. Further calls fail with ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	clear(m.items)
	m.order.Init()
	return nil
}

func (m *Memory[V]) expired(e *memoryEntry[V]) bool {
	return m.cfg.ttl > 0 && m.now().Sub(e.stored) >= m.cfg.ttl
}

// remove must be called with mu held.
func (m *Memory[V]) remove(el *list.Element) {
	e := m.order.Remove(el).(*memoryEntry[V])
	delete(m.items, e.key)
}

var _ Cache[any] = (*Memory[any])(nil)
