package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/cabinet/internal/repository"
	"github.com/rpggio/cabinet/internal/repository/mocks"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type note struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

type widget struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	DueAt  time.Time  `json:"due_at"`
	DoneAt *time.Time `json:"done_at,omitempty"`
	Notes  []note     `json:"notes"`
	Labels []string   `json:"labels,omitempty"`
}

func (w widget) EntityID() string { return w.ID }

func (w widget) Normalized() widget {
	if w.Notes == nil {
		w.Notes = []note{}
	}
	if w.Labels == nil {
		w.Labels = []string{}
	}
	return w
}

func defaultWidgets() []widget {
	return []widget{{ID: "default", Name: "seed"}}
}

func newWidgetStore(t *testing.T, bytes repository.ByteStore) *store.EntityStore[widget] {
	t.Helper()
	s := store.New[widget](bytes, store.Options[widget]{Key: "widgets", Defaults: defaultWidgets})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestEntityStore_RoundTripNestedDates(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	s := newWidgetStore(t, bytes)

	due := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	noted := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	done := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, widget{
		ID:     "w1",
		Name:   "report",
		DueAt:  due,
		DoneAt: &done,
		Notes:  []note{{At: noted, Text: "started"}},
	}))

	reloaded := newWidgetStore(t, bytes)
	got, ok := reloaded.Find("w1")
	require.True(t, ok)
	require.True(t, got.DueAt.Equal(due))
	require.NotNil(t, got.DoneAt)
	require.True(t, got.DoneAt.Equal(done))
	require.Len(t, got.Notes, 1)
	require.True(t, got.Notes[0].At.Equal(noted))
	require.NotNil(t, got.Labels)
}

func TestEntityStore_MissingKeySeedsDefaults(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	s := newWidgetStore(t, bytes)

	list := s.List()
	require.Len(t, list, 1)
	require.Equal(t, "default", list[0].ID)
	require.NotNil(t, list[0].Notes)

	blob, err := bytes.Get(ctx, "widgets")
	require.NoError(t, err)
	require.Equal(t, int64(1), blob.Version)
}

func TestEntityStore_CorruptDataFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	_, err := bytes.Put(ctx, "widgets", []byte("{not json"), 0)
	require.NoError(t, err)

	s := newWidgetStore(t, bytes)
	list := s.List()
	require.Len(t, list, 1)
	require.Equal(t, "default", list[0].ID)

	blob, err := bytes.Get(ctx, "widgets")
	require.NoError(t, err)
	require.Equal(t, "{not json", string(blob.Value))
}

func TestEntityStore_NullNestedListsNormalized(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	_, err := bytes.Put(ctx, "widgets", []byte(`[{"id":"w1","name":"x","notes":null}]`), 0)
	require.NoError(t, err)

	s := newWidgetStore(t, bytes)
	got, ok := s.Find("w1")
	require.True(t, ok)
	require.NotNil(t, got.Notes)
	require.Empty(t, got.Notes)
}

func TestEntityStore_NullCollectionIsEmpty(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	_, err := bytes.Put(ctx, "widgets", []byte(`null`), 0)
	require.NoError(t, err)

	s := newWidgetStore(t, bytes)
	require.Empty(t, s.List())
}

func TestEntityStore_UpdateAndRemoveUnknownAreNoOps(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	s := newWidgetStore(t, bytes)

	require.NoError(t, s.Update(ctx, widget{ID: "missing", Name: "ghost"}))
	require.NoError(t, s.Remove(ctx, "missing"))

	blob, err := bytes.Get(ctx, "widgets")
	require.NoError(t, err)
	require.Equal(t, int64(1), blob.Version)
	require.Len(t, s.List(), 1)
}

func TestEntityStore_CreateRejectsDuplicateAndEmptyID(t *testing.T) {
	ctx := context.Background()
	s := newWidgetStore(t, store.NewMemoryByteStore())

	err := s.Create(ctx, widget{ID: "default"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	err = s.Create(ctx, widget{ID: "  "})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestEntityStore_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newWidgetStore(t, store.NewMemoryByteStore())
	require.NoError(t, s.Create(ctx, widget{ID: "w1", Notes: []note{{Text: "a"}}}))

	got, _ := s.Find("w1")
	got.Notes[0].Text = "mutated"

	again, _ := s.Find("w1")
	require.Equal(t, "a", again.Notes[0].Text)
}

func TestEntityStore_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	s := newWidgetStore(t, bytes)

	require.NoError(t, s.Create(ctx, widget{ID: "w1", Name: "before"}))
	require.NoError(t, s.Update(ctx, widget{ID: "w1", Name: "after"}))
	got, ok := s.Find("w1")
	require.True(t, ok)
	require.Equal(t, "after", got.Name)

	require.NoError(t, s.Remove(ctx, "w1"))
	_, ok = s.Find("w1")
	require.False(t, ok)

	reloaded := newWidgetStore(t, bytes)
	require.Len(t, reloaded.List(), 1)
	require.Len(t, reloaded.Filter(func(w widget) bool { return w.ID == "default" }), 1)
}

func TestEntityStore_PersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	bytes := &mocks.ByteStore{}
	bytes.On("Get", ctx, "widgets").Return(&repository.Blob{Key: "widgets", Value: []byte(`[]`), Version: 3}, nil)
	diskFull := errors.New("disk full")
	bytes.On("Put", ctx, "widgets", mock.Anything, int64(0)).Return(int64(0), diskFull)

	s := newWidgetStore(t, bytes)
	err := s.Create(ctx, widget{ID: "w1"})
	require.ErrorIs(t, err, store.ErrPersistence)
	require.ErrorIs(t, err, diskFull)

	var perr *store.PersistError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "widgets", perr.Key)

	_, ok := s.Find("w1")
	require.True(t, ok)
	bytes.AssertExpectations(t)
}

func TestEntityStore_LoadSurfacesBackendErrors(t *testing.T) {
	ctx := context.Background()
	bytes := &mocks.ByteStore{}
	bytes.On("Get", ctx, "widgets").Return(nil, errors.New("connection refused"))

	s := store.New[widget](bytes, store.Options[widget]{Key: "widgets"})
	require.Error(t, s.Load(ctx))
}

func TestEntityStore_OptimisticConflict(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	opts := store.Options[widget]{Key: "widgets", Defaults: defaultWidgets, Optimistic: true}

	first := store.New[widget](bytes, opts)
	require.NoError(t, first.Load(ctx))
	second := store.New[widget](bytes, opts)
	require.NoError(t, second.Load(ctx))

	require.NoError(t, first.Create(ctx, widget{ID: "w1"}))
	err := second.Create(ctx, widget{ID: "w2"})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.ErrorIs(t, err, store.ErrPersistence)

	// The conflict is reported once; the next write carries the stored version.
	require.NoError(t, second.Create(ctx, widget{ID: "w3"}))
	reloaded := store.New[widget](bytes, opts)
	require.NoError(t, reloaded.Load(ctx))
	_, ok := reloaded.Find("w3")
	require.True(t, ok)
}

func TestEntityStore_OnPersistErrorSeesFailedWrites(t *testing.T) {
	ctx := context.Background()
	bytes := &mocks.ByteStore{}
	bytes.On("Get", ctx, "widgets").Return(&repository.Blob{Key: "widgets", Value: []byte(`[]`), Version: 1}, nil)
	bytes.On("Put", ctx, "widgets", mock.Anything, int64(0)).Return(int64(0), errors.New("quota exceeded"))

	var keys []string
	s := store.New[widget](bytes, store.Options[widget]{
		Key: "widgets",
		OnPersistError: func(_ context.Context, key string, err error) {
			require.ErrorIs(t, err, store.ErrPersistence)
			keys = append(keys, key)
		},
	})
	require.NoError(t, s.Load(ctx))

	require.Error(t, s.Create(ctx, widget{ID: "w1"}))
	require.Error(t, s.Remove(ctx, "w1"))
	require.Equal(t, []string{"widgets", "widgets"}, keys)
}

func TestEntityStore_LastWriteWinsByDefault(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()

	first := newWidgetStore(t, bytes)
	second := newWidgetStore(t, bytes)

	require.NoError(t, first.Create(ctx, widget{ID: "w1"}))
	require.NoError(t, second.Create(ctx, widget{ID: "w2"}))

	reloaded := newWidgetStore(t, bytes)
	_, ok := reloaded.Find("w2")
	require.True(t, ok)
	_, ok = reloaded.Find("w1")
	require.False(t, ok)
}
