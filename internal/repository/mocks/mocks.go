package mocks

import (
	"context"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/repository"
	"github.com/stretchr/testify/mock"
)

// ByteStore is a mock for repository.ByteStore.
type ByteStore struct {
	mock.Mock
}

var _ repository.ByteStore = (*ByteStore)(nil)

func (m *ByteStore) Get(ctx context.Context, key string) (*repository.Blob, error) {
	args := m.Called(ctx, key)
	if blob, ok := args.Get(0).(*repository.Blob); ok {
		return blob, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ByteStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, key, value, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ByteStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ByteStore) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if keys, ok := args.Get(0).([]string); ok {
		return keys, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ByteStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// EntityStore is a mock for the per-domain collection stores.
type EntityStore[T any] struct {
	mock.Mock
}

func (m *EntityStore[T]) List() []T {
	args := m.Called()
	if list, ok := args.Get(0).([]T); ok {
		return list
	}
	return nil
}

func (m *EntityStore[T]) Find(id string) (T, bool) {
	args := m.Called(id)
	if v, ok := args.Get(0).(T); ok {
		return v, args.Bool(1)
	}
	var zero T
	return zero, args.Bool(1)
}

func (m *EntityStore[T]) Filter(keep func(T) bool) []T {
	var out []T
	for _, item := range m.List() {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (m *EntityStore[T]) Create(ctx context.Context, v T) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *EntityStore[T]) Update(ctx context.Context, v T) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *EntityStore[T]) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRecorder is a mock for the audit recorder the services accept.
type ActivityRecorder struct {
	mock.Mock
}

func (m *ActivityRecorder) Record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string) {
	m.Called(ctx, typ, actorID, subjectID, summary)
}
