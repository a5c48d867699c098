package cache

import (
	"context"
	"sync"
)

// DefaultMemoryEntries is the capacity used when NewMemory is given zero.
const DefaultMemoryEntries = 256

// Memory is a bounded in-process cache. When full, the oldest entry is
// evicted first.
type Memory struct {
	mu      sync.Mutex
	max     int
	entries map[string][]byte
	order   []string
}

var _ ThumbnailCache = (*Memory)(nil)

// NewMemory creates a cache holding at most maxEntries values.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &Memory{max: maxEntries, entries: make(map[string][]byte, maxEntries)}
}

// Get returns a copy of the cached value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value. Re-setting an existing key keeps its age.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		for len(m.order) >= m.max {
			delete(m.entries, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
