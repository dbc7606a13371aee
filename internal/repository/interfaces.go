package repository

import "context"

// Blob is one stored collection: the serialized bytes plus the version the
// backend assigned on the last write.
type Blob struct {
	Key     string
	Value   []byte
	Version int64
}

// ByteStore is the durable key-value contract every collection is persisted
// through. Keys are fixed logical collection names.
//
// Put with expectedVersion 0 writes unconditionally (last write wins). A
// positive expectedVersion must match the stored version or Put returns
// ErrConflict; a missing key only matches expectedVersion 0.
type ByteStore interface {
	Get(ctx context.Context, key string) (*Blob, error)
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
