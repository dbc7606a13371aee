// Package store keeps each entity collection in memory and writes the whole
// collection through to a repository.ByteStore on every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/cabinet/internal/repository"
)

// Record is the constraint for stored entities. Normalized returns a copy with
// every nested list set to a non-nil slice so aggregate functions stay total.
type Record[T any] interface {
	EntityID() string
	Normalized() T
}

// Options configures an EntityStore.
type Options[T any] struct {
	// Key is the fixed logical name the collection is stored under.
	Key string
	// Defaults builds the built-in dataset used when nothing is stored yet or
	// the stored blob cannot be decoded.
	Defaults func() []T
	// Optimistic makes writes conditional on the version last read.
	Optimistic bool
	// OnPersistError is told about every failed write-through. It runs with
	// the collection locked and must not call back into this store.
	OnPersistError func(ctx context.Context, key string, err error)
	Logger         *slog.Logger
}

// EntityStore is a durable, key-less collection of T.
type EntityStore[T Record[T]] struct {
	bytes      repository.ByteStore
	key        string
	defaults   func() []T
	optimistic bool
	onPersist  func(ctx context.Context, key string, err error)
	logger     *slog.Logger

	mu      sync.RWMutex
	items   []T
	version int64
}

// New creates a store. Call Load before use.
func New[T Record[T]](bytes repository.ByteStore, opts Options[T]) *EntityStore[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityStore[T]{
		bytes:      bytes,
		key:        opts.Key,
		defaults:   opts.Defaults,
		optimistic: opts.Optimistic,
		onPersist:  opts.OnPersistError,
		logger:     logger.With("collection", opts.Key),
		items:      []T{},
	}
}

// Key returns the collection key.
func (s *EntityStore[T]) Key() string {
	return s.key
}

// Load reads the collection from the byte store and rehydrates it, replacing
// the in-memory list. A missing key seeds the default dataset and writes it
// back. Undecodable data falls back to the defaults without failing.
func (s *EntityStore[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.bytes.Get(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		s.items = s.defaultItems()
		s.version = 0
		if err := s.flushLocked(ctx); err != nil {
			s.logger.Warn("failed to write default dataset", "error", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", s.key, err)
	}

	s.version = blob.Version
	items, err := Rehydrate[T](blob.Value)
	if err != nil {
		rerr := &RehydrationError{Key: s.key, Err: err}
		s.logger.Warn("stored data unreadable, using default dataset", "error", rerr)
		s.items = s.defaultItems()
		return nil
	}
	s.items = items
	return nil
}

// List returns a snapshot of every entity in insertion order.
func (s *EntityStore[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, clone(item).Normalized())
	}
	return out
}

// Filter returns a snapshot of the entities matching keep.
func (s *EntityStore[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []T
	for _, item := range s.items {
		if keep(item) {
			out = append(out, clone(item).Normalized())
		}
	}
	return out
}

// Find returns a snapshot of the entity with id.
func (s *EntityStore[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return clone(s.items[i]).Normalized(), true
	}
	var zero T
	return zero, false
}

// Create appends e and writes the collection through.
func (s *EntityStore[T]) Create(ctx context.Context, e T) error {
	id := e.EntityID()
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: missing id", repository.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) >= 0 {
		return fmt.Errorf("%w: duplicate id %s", repository.ErrInvalidInput, id)
	}
	s.items = append(s.items, clone(e).Normalized())
	return s.flushLocked(ctx)
}

// Update replaces the entity with e's id. An unknown id is a silent no-op.
func (s *EntityStore[T]) Update(ctx context.Context, e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(e.EntityID())
	if i < 0 {
		return nil
	}
	s.items[i] = clone(e).Normalized()
	return s.flushLocked(ctx)
}

// Remove deletes the entity with id. An unknown id is a silent no-op.
func (s *EntityStore[T]) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.flushLocked(ctx)
}

func (s *EntityStore[T]) indexLocked(id string) int {
	for i, item := range s.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

func (s *EntityStore[T]) defaultItems() []T {
	if s.defaults == nil {
		return []T{}
	}
	defaults := s.defaults()
	items := make([]T, 0, len(defaults))
	for _, item := range defaults {
		items = append(items, item.Normalized())
	}
	return items
}

// flushLocked writes the full collection. On failure the in-memory state is
// kept and a *PersistError is returned. A version conflict is reported once:
// the stored version is re-read so the next mutation writes over it.
func (s *EntityStore[T]) flushLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return s.failLocked(ctx, fmt.Errorf("encode: %w", err))
	}

	var expected int64
	if s.optimistic {
		expected = s.version
	}

	version, err := s.bytes.Put(ctx, s.key, data, expected)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.resyncVersionLocked(ctx)
		}
		s.logger.Warn("write-through failed, keeping in-memory state", "error", err)
		return s.failLocked(ctx, err)
	}
	s.version = version
	return nil
}

func (s *EntityStore[T]) failLocked(ctx context.Context, err error) error {
	perr := &PersistError{Key: s.key, Err: err}
	if s.onPersist != nil {
		s.onPersist(ctx, s.key, perr)
	}
	return perr
}

func (s *EntityStore[T]) resyncVersionLocked(ctx context.Context) {
	blob, err := s.bytes.Get(ctx, s.key)
	switch {
	case err == nil:
		s.version = blob.Version
	case errors.Is(err, repository.ErrNotFound):
		s.version = 0
	default:
		s.logger.Warn("failed to re-read version after conflict", "error", err)
	}
}

// Rehydrate decodes a serialized collection and normalizes every entity.
// A JSON null decodes to an empty collection.
func Rehydrate[T Record[T]](data []byte) ([]T, error) {
	var raw []T
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(raw))
	for _, item := range raw {
		items = append(items, item.Normalized())
	}
	return items, nil
}

func clone[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
