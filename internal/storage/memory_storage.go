package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Object is a stored blob in MemoryStorage.
type Object struct {
	ContentType string
	Data        []byte
	Public      bool
}

// MemoryStorage keeps objects in process. Used when no bucket is configured in development,
// and by tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]*Object
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "http://localhost/uploads"
	}
	return &MemoryStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]*Object),
	}
}

func (m *MemoryStorage) Put(ctx context.Context, key, contentType string, body io.Reader, _ int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", key, err)
	}

	m.mu.Lock()
	m.objects[key] = &Object{ContentType: contentType, Data: data}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) MakePublic(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	obj.Public = true
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) URL(key string) string {
	return fmt.Sprintf("%s/%s", m.baseURL, key)
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Object returns the stored object at key.
func (m *MemoryStorage) Object(key string) (*Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Keys lists stored keys.
func (m *MemoryStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
