package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	runStoreSuite(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_CreatesRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "data", "snapshots")
	store := NewLocalStore(root)

	require.NoError(t, store.Put(ctx, "users.bpt", []byte("payload")))

	_, err := os.Stat(filepath.Join(root, "users.bpt"))
	require.NoError(t, err)
}

func TestLocalStore_InFlightWritesHidden(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	w, err := store.Create(ctx, "big.bpt")
	require.NoError(t, err)

	_, err = w.Write([]byte("partial content"))
	require.NoError(t, err)

	// The blob must not be listed or readable until Close.
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Open(ctx, "big.bpt")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"big.bpt"}, names)
}

func TestLocalStore_CloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	w, err := store.Create(ctx, "snap.bpt")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := ReadAll(ctx, store, "snap.bpt")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
