package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/btreego/blobstore"
	"github.com/hupe1980/btreego/model"
	"github.com/hupe1980/btreego/resource"
)

func newTestManager(t *testing.T, opts ManagerOptions) (*Manager, *blobstore.MemoryStore) {
	t.Helper()
	store := blobstore.NewMemoryStore()
	opts.Store = store
	m, err := NewManager(opts)
	require.NoError(t, err)
	return m, store
}

func usersSnapshot() *Snapshot {
	return &Snapshot{
		Table: "users",
		Order: 4,
		Items: []Item{
			{Key: model.IntKey(1), Value: model.Record{"name": "alice"}},
			{Key: model.IntKey(2), Value: model.Record{"name": "bob"}},
		},
	}
}

func ordersSnapshot() *Snapshot {
	return &Snapshot{
		Table: "orders",
		Order: 6,
		Items: []Item{
			{Key: model.StringKey("ord-1"), Value: model.Record{"total": float64(99)}},
		},
	}
}

func TestNewManager_RequiresStore(t *testing.T) {
	_, err := NewManager(ManagerOptions{})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestManager_SaveLoad(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{})

	snaps := []*Snapshot{usersSnapshot(), ordersSnapshot()}
	man, err := m.Save(ctx, snaps)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), man.ID)
	require.Len(t, man.Tables, 2)

	users := man.Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, 4, users.Order)
	assert.Equal(t, 2, users.Keys)
	assert.Equal(t, "users-000001.bpt", users.Path)
	assert.Positive(t, users.Bytes)
	assert.NotZero(t, users.Checksum)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CURRENT",
		"MANIFEST-000001.json",
		"orders-000001.bpt",
		"users-000001.bpt",
	}, names)

	got, gotMan, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, man.ID, gotMan.ID)
	assert.Equal(t, snaps, got)
}

func TestManager_LoadEmpty(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, ManagerOptions{})

	snaps, man, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snaps)
	assert.Equal(t, uint64(0), man.ID)
}

func TestManager_SaveEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, ManagerOptions{})

	man, err := m.Save(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), man.ID)
	assert.Empty(t, man.Tables)

	snaps, gotMan, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	assert.Equal(t, uint64(1), gotMan.ID)
}

func TestManager_VersionsAdvance(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, ManagerOptions{})

	for want := uint64(1); want <= 3; want++ {
		man, err := m.Save(ctx, []*Snapshot{usersSnapshot()})
		require.NoError(t, err)
		assert.Equal(t, want, man.ID)
	}

	ids, err := m.Manifests().Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
}

func TestManager_Compression(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{Compression: CompressionZstd})

	_, err := m.Save(ctx, []*Snapshot{usersSnapshot()})
	require.NoError(t, err)

	raw, err := blobstore.ReadAll(ctx, store, "users-000001.bpt")
	require.NoError(t, err)
	hdr, err := ParseHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, hdr.Compression)

	snaps, _, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*Snapshot{usersSnapshot()}, snaps)
}

func TestManager_WithController(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:     1 << 20,
		MaxBackgroundWorkers: 2,
		IOLimitBytesPerSec:   10 << 20,
	})
	m, _ := newTestManager(t, ManagerOptions{Controller: rc})

	snaps := []*Snapshot{usersSnapshot(), ordersSnapshot()}
	_, err := m.Save(ctx, snaps)
	require.NoError(t, err)

	got, _, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snaps, got)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestManager_CorruptBlob(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{})

	_, err := m.Save(ctx, []*Snapshot{usersSnapshot()})
	require.NoError(t, err)

	raw, err := blobstore.ReadAll(ctx, store, "users-000001.bpt")
	require.NoError(t, err)
	raw[len(raw)/2] ^= 0xff
	require.NoError(t, store.Put(ctx, "users-000001.bpt", raw))

	_, _, err = m.Load(ctx)
	require.Error(t, err)
	assert.True(t, IsChecksumMismatch(err))
}

func TestManager_WrongBlobContent(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{})

	_, err := m.Save(ctx, []*Snapshot{usersSnapshot()})
	require.NoError(t, err)

	// Replace the users blob with a valid snapshot of another table.
	other := encodeSnapshot(t, ordersSnapshot(), EncodeOptions{})
	require.NoError(t, store.Put(ctx, "users-000001.bpt", other))

	_, _, err = m.Load(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, `load table "users"`)
}

func TestManager_Prune(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{})

	_, err := m.Save(ctx, []*Snapshot{usersSnapshot(), ordersSnapshot()})
	require.NoError(t, err)
	_, err = m.Save(ctx, []*Snapshot{usersSnapshot()})
	require.NoError(t, err)

	removed, err := m.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CURRENT",
		"MANIFEST-000002.json",
		"users-000002.bpt",
	}, names)

	snaps, man, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), man.ID)
	assert.Equal(t, []*Snapshot{usersSnapshot()}, snaps)
}

func TestManager_PruneKeepsRetainedReferences(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{})

	_, err := m.Save(ctx, []*Snapshot{usersSnapshot()})
	require.NoError(t, err)
	_, err = m.Save(ctx, []*Snapshot{ordersSnapshot()})
	require.NoError(t, err)

	// Both manifests retained, so both blobs stay referenced.
	removed, err := m.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = m.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.NotContains(t, names, "users-000001.bpt")
	assert.NotContains(t, names, "MANIFEST-000001.json")
	assert.Contains(t, names, "orders-000002.bpt")
}

func TestManager_PruneSkipsForeignBlobs(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, ManagerOptions{})

	_, err := m.Save(ctx, []*Snapshot{usersSnapshot()})
	require.NoError(t, err)

	// Blobs of a newer, in-flight version and unrelated files survive.
	require.NoError(t, store.Put(ctx, "users-000002.bpt", []byte("in flight")))
	require.NoError(t, store.Put(ctx, "notes.txt", []byte("keep me")))

	removed, err := m.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "users-000002.bpt")
	assert.Contains(t, names, "notes.txt")
}

func TestManager_Closed(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, ManagerOptions{})
	require.NoError(t, m.Close())

	_, err := m.Save(ctx, nil)
	assert.ErrorIs(t, err, ErrManagerClosed)
	_, _, err = m.Load(ctx)
	assert.ErrorIs(t, err, ErrManagerClosed)
	_, err = m.Prune(ctx, 1)
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func TestBlobName(t *testing.T) {
	assert.Equal(t, "users-000003.bpt", BlobName("users", 3))

	for _, tt := range []struct {
		name string
		want uint64
		ok   bool
	}{
		{"users-000003.bpt", 3, true},
		{"user-events-000010.bpt", 10, true},
		{"users-1000000.bpt", 1000000, true},
		{"CURRENT", 0, false},
		{"MANIFEST-000001.json", 0, false},
		{"users-000000.bpt", 0, false},
		{"users.bpt", 0, false},
	} {
		got, ok := blobVersion(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
