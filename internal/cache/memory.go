package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process-local Cache used in development and tests.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	generation int64
	now        func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, int64, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	gen := m.generation
	m.mu.RUnlock()

	if !ok {
		return nil, gen, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		if current, still := m.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, gen, false, nil
	}
	return entry.value, gen, true, nil
}

func (m *Memory) Set(_ context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrStale
	}
	m.entries[key] = entry
	return nil
}

func (m *Memory) InvalidateAll(context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.generation++
	m.mu.Unlock()
	return nil
}
