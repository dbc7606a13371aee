package redis

import (
	"context"
	"os"
	"testing"

	"github.com/rpggio/cabinet/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("CABINET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CABINET_TEST_REDIS_ADDR not set")
	}

	store, err := New(Options{Addr: addr, Prefix: "cabinet-test-" + t.Name()})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := store.Keys(ctx)
		for _, key := range keys {
			_ = store.Delete(ctx, key)
		}
		store.Close()
	})
	return store
}

func TestStore_KeyLayout(t *testing.T) {
	s := NewWithClient(nil, "")
	require.Equal(t, "cabinet:kv:clients", s.hashKey("clients"))
	require.Equal(t, "cabinet:keys", s.indexKey())
}

func TestStore_PutGetVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "clients")
	require.ErrorIs(t, err, repository.ErrNotFound)

	v1, err := store.Put(ctx, "clients", []byte(`[]`), 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), v1)

	_, err = store.Put(ctx, "clients", []byte(`[1]`), v1+5)
	require.ErrorIs(t, err, repository.ErrConflict)

	v2, err := store.Put(ctx, "clients", []byte(`[2]`), v1)
	require.NoError(t, err)
	require.Equal(t, int64(2), v2)

	blob, err := store.Get(ctx, "clients")
	require.NoError(t, err)
	require.Equal(t, "[2]", string(blob.Value))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"clients"}, keys)

	require.NoError(t, store.Delete(ctx, "clients"))
	require.ErrorIs(t, store.Delete(ctx, "clients"), repository.ErrNotFound)
}
