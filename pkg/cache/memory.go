package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type fragmentKey struct {
	lang  string
	scope string
}

type entry struct {
	expiresAt time.Time // zero value = never expires
	fragment  Fragment
	key       fragmentKey
}

func (e *entry) isExpired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryOption configures the in-memory cache.
type MemoryOption func(*Memory)

// WithDefaultTTL sets the expiration used when Set is called with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(m *Memory) {
		m.defaultTTL = d
	}
}

// WithCleanupInterval sets how often the janitor removes expired fragments.
// Zero disables the janitor. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(m *Memory) {
		m.cleanupInterval = d
	}
}

// WithMaxEntries bounds the number of cached fragments. When the bound is
// reached the least recently used fragment is evicted. Default: unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) {
		m.maxEntries = n
	}
}

// Memory is an in-process fragment cache with TTL expiration and optional
// LRU eviction. The most recently used fragments are at the front of the
// eviction list.
type Memory struct {
	items           map[fragmentKey]*list.Element
	eviction        *list.List
	done            chan struct{}
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
	hits            atomic.Uint64
	misses          atomic.Uint64
	mu              sync.Mutex
	closed          bool
}

// NewMemory creates an in-memory fragment cache.
//
// Example:
//
//	c := cache.NewMemory(
//	    cache.WithDefaultTTL(10 * time.Minute),
//	    cache.WithMaxEntries(1000),
//	)
//	defer c.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		items:           make(map[fragmentKey]*list.Element),
		eviction:        list.New(),
		done:            make(chan struct{}),
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, lang, scope string) (Fragment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[fragmentKey{lang: lang, scope: scope}]
	if !ok {
		m.misses.Add(1)
		return nil, ErrNotFound
	}

	e := elem.Value.(*entry)
	if e.isExpired(time.Now()) {
		m.remove(elem)
		m.misses.Add(1)
		return nil, ErrNotFound
	}

	m.eviction.MoveToFront(elem)
	m.hits.Add(1)

	return e.fragment, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, lang, scope string, fragment Fragment, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	key := fragmentKey{lang: lang, scope: scope}
	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry)
		e.fragment = fragment
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		if oldest := m.eviction.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.items[key] = m.eviction.PushFront(&entry{key: key, fragment: fragment, expiresAt: expiresAt})

	return nil
}

// Delete implements Cache.
func (m *Memory) Delete(_ context.Context, lang, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.items[fragmentKey{lang: lang, scope: scope}]; ok {
		m.remove(elem)
	}
	return nil
}

// DeleteLanguage implements Cache.
func (m *Memory) DeleteLanguage(_ context.Context, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	for key, elem := range m.items {
		if key.lang == lang {
			m.remove(elem)
		}
	}
	return nil
}

// Clear implements Cache.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items = make(map[fragmentKey]*list.Element)
	m.eviction.Init()
	return nil
}

// Len returns the number of cached fragments, expired ones included until
// they are cleaned up.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Stats returns the hit and miss counters.
func (m *Memory) Stats() Stats {
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// Close stops the janitor and marks the cache as closed. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).isExpired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove drops elem. Caller must hold the mutex.
func (m *Memory) remove(elem *list.Element) {
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*entry).key)
}

var _ Cache = (*Memory)(nil)
