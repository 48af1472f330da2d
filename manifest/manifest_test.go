package manifest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/btreego/blobstore"
)

func TestName(t *testing.T) {
	assert.Equal(t, "MANIFEST-000001.json", Name(1))
	assert.Equal(t, "MANIFEST-000042.json", Name(42))
	assert.Equal(t, "MANIFEST-1000000.json", Name(1000000))
}

func TestParseID(t *testing.T) {
	for _, tt := range []struct {
		name string
		want uint64
		ok   bool
	}{
		{"MANIFEST-000001.json", 1, true},
		{"MANIFEST-000042.json", 42, true},
		{"MANIFEST-1000000.json", 1000000, true},
		{"MANIFEST-000000.json", 0, false},
		{"MANIFEST-abc.json", 0, false},
		{"MANIFEST-000001", 0, false},
		{"SNAPSHOT-000001.json", 0, false},
		{"CURRENT", 0, false},
	} {
		got, err := ParseID(tt.name)
		if tt.ok {
			require.NoError(t, err, tt.name)
			assert.Equal(t, tt.want, got, tt.name)
		} else {
			assert.Error(t, err, tt.name)
		}
	}
}

func testManifest(id uint64, table string) *Manifest {
	return &Manifest{
		ID: id,
		Tables: []TableInfo{{
			Name:     table,
			Order:    4,
			Keys:     128,
			Path:     table + "-000001.bpt",
			Bytes:    4096,
			Checksum: 0xcafebabe,
		}},
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewStore(blobstore.NewMemoryStore())

	m, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), m.ID)
	assert.Equal(t, FormatVersion, m.Format)
	assert.Empty(t, m.Tables)

	id, err := s.CurrentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
}

func TestStore_CommitLoad(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := NewStore(bs)

	m := testManifest(1, "users")
	require.NoError(t, s.Commit(ctx, m))

	assert.Equal(t, FormatVersion, m.Format)
	assert.False(t, m.CreatedAt.IsZero())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)
	require.Len(t, got.Tables, 1)
	assert.Equal(t, m.Tables[0], got.Tables[0])

	info, ok := got.Table("users")
	assert.True(t, ok)
	assert.Equal(t, "users-000001.bpt", info.Path)
	_, ok = got.Table("orders")
	assert.False(t, ok)

	// CURRENT holds nothing but the manifest file name.
	cur, err := blobstore.ReadAll(ctx, bs, CurrentFile)
	require.NoError(t, err)
	assert.Equal(t, "MANIFEST-000001.json", string(cur))

	id, err := s.CurrentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestStore_CommitRequiresID(t *testing.T) {
	s := NewStore(blobstore.NewMemoryStore())
	err := s.Commit(context.Background(), &Manifest{})
	assert.Error(t, err)
}

func TestStore_CommitKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewStore(blobstore.NewMemoryStore())

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := testManifest(1, "users")
	m.CreatedAt = at
	require.NoError(t, s.Commit(ctx, m))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(at))
}

func TestStore_Versions(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := NewStore(bs)

	for id := uint64(1); id <= 3; id++ {
		require.NoError(t, s.Commit(ctx, testManifest(id, "users")))
	}

	// Files that merely look like manifests are ignored.
	require.NoError(t, bs.Put(ctx, "MANIFEST-backup.json", []byte("{}")))

	ids, err := s.Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
}

func TestStore_Read_BadFormat(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := NewStore(bs)

	require.NoError(t, bs.Put(ctx, Name(1), []byte(`{"format":99,"id":1}`)))
	_, err := s.Read(ctx, Name(1))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(blobstore.NewMemoryStore())

	require.NoError(t, s.Commit(ctx, testManifest(1, "users")))
	require.NoError(t, s.Commit(ctx, testManifest(2, "users")))

	require.NoError(t, s.Delete(ctx, 1))
	_, err := s.Read(ctx, Name(1))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	err = s.Delete(ctx, 2)
	assert.ErrorContains(t, err, "is current")
}

// conditionalStore adds compare-and-set writes to the in-memory store,
// mirroring what the S3 Express backend provides.
type conditionalStore struct {
	*blobstore.MemoryStore
	mu sync.Mutex
}

func (s *conditionalStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blob, err := s.MemoryStore.Open(ctx, name); err == nil {
		blob.Close()
		return blobstore.ErrConflict
	}
	return s.MemoryStore.Put(ctx, name, data)
}

func TestStore_CommitConflict(t *testing.T) {
	ctx := context.Background()
	bs := &conditionalStore{MemoryStore: blobstore.NewMemoryStore()}

	first := NewStore(bs)
	second := NewStore(bs)

	require.NoError(t, first.Commit(ctx, testManifest(1, "users")))

	// A second writer claiming the same version must lose without
	// touching the pointer.
	err := second.Commit(ctx, testManifest(1, "orders"))
	require.ErrorIs(t, err, ErrConcurrentCommit)

	got, err := first.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Tables, 1)
	assert.Equal(t, "users", got.Tables[0].Name)
}
