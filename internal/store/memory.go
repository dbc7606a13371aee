package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rpggio/cabinet/internal/repository"
)

// MemoryByteStore is a process-local repository.ByteStore for tests and
// ephemeral runs.
type MemoryByteStore struct {
	mu    sync.Mutex
	blobs map[string]repository.Blob
}

var _ repository.ByteStore = (*MemoryByteStore)(nil)

// NewMemoryByteStore returns an empty store.
func NewMemoryByteStore() *MemoryByteStore {
	return &MemoryByteStore{blobs: make(map[string]repository.Blob)}
}

func (m *MemoryByteStore) Get(_ context.Context, key string) (*repository.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	blob.Value = append([]byte(nil), blob.Value...)
	return &blob, nil
}

func (m *MemoryByteStore) Put(_ context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.blobs[key].Version
	if expectedVersion > 0 && current != expectedVersion {
		return 0, repository.ErrConflict
	}
	next := current + 1
	m.blobs[key] = repository.Blob{
		Key:     key,
		Value:   append([]byte(nil), value...),
		Version: next,
	}
	return next, nil
}

func (m *MemoryByteStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *MemoryByteStore) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryByteStore) Close() error {
	return nil
}
