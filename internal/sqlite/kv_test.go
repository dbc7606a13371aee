package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/cabinet/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestKVStore_PutGet(t *testing.T) {
	db := NewTestDB(t)
	store := NewKVStore(db)
	ctx := context.Background()

	_, err := store.Get(ctx, "clients")
	require.ErrorIs(t, err, repository.ErrNotFound)

	version, err := store.Put(ctx, "clients", []byte(`[{"id":"c1"}]`), 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), version)

	blob, err := store.Get(ctx, "clients")
	require.NoError(t, err)
	require.Equal(t, "clients", blob.Key)
	require.JSONEq(t, `[{"id":"c1"}]`, string(blob.Value))
	require.Equal(t, int64(1), blob.Version)

	version, err = store.Put(ctx, "clients", []byte(`[]`), 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), version)
}

func TestKVStore_OptimisticVersion(t *testing.T) {
	db := NewTestDB(t)
	store := NewKVStore(db)
	ctx := context.Background()

	_, err := store.Put(ctx, "missions", []byte(`[]`), 3)
	require.ErrorIs(t, err, repository.ErrConflict, "missing key only matches version 0")

	v1, err := store.Put(ctx, "missions", []byte(`[]`), 0)
	require.NoError(t, err)

	v2, err := store.Put(ctx, "missions", []byte(`[{"id":"m1"}]`), v1)
	require.NoError(t, err)
	require.Equal(t, v1+1, v2)

	_, err = store.Put(ctx, "missions", []byte(`[{"id":"stale"}]`), v1)
	require.ErrorIs(t, err, repository.ErrConflict)

	blob, err := store.Get(ctx, "missions")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"m1"}]`, string(blob.Value))
}

func TestKVStore_DeleteAndKeys(t *testing.T) {
	db := NewTestDB(t)
	store := NewKVStore(db)
	ctx := context.Background()

	_, err := store.Put(ctx, "users", []byte(`[]`), 0)
	require.NoError(t, err)
	_, err = store.Put(ctx, "clients", []byte(`[]`), 0)
	require.NoError(t, err)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"clients", "users"}, keys)

	require.NoError(t, store.Delete(ctx, "users"))
	require.ErrorIs(t, store.Delete(ctx, "users"), repository.ErrNotFound)

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"clients"}, keys)
}
