package btreego_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/btreego"
	"github.com/hupe1980/btreego/blobstore"
	"github.com/hupe1980/btreego/manifest"
	"github.com/hupe1980/btreego/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, optFns ...btreego.Option) *btreego.DB {
	t.Helper()

	db, err := btreego.New(optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// seedUsers creates a "users" table with three records keyed 1..3.
func seedUsers(t *testing.T, db *btreego.DB) *btreego.Table {
	t.Helper()
	ctx := context.Background()

	users, err := db.CreateTable(ctx, "users", 0)
	require.NoError(t, err)

	for i, name := range []string{"ada", "grace", "alan"} {
		err := users.Insert(ctx, model.IntKey(int64(i+1)), model.Record{"name": name})
		require.NoError(t, err)
	}
	return users
}

func TestNew_InvalidOrder(t *testing.T) {
	_, err := btreego.New(btreego.WithOrder(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, btreego.ErrInvalidOrder)

	var orderErr *btreego.ErrOrderTooSmall
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, 2, orderErr.Order)
}

func TestNew_AutosaveRequiresStore(t *testing.T) {
	_, err := btreego.New(btreego.WithAutosave(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, btreego.ErrNoStore)
}

func TestDB_CreateTable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	users, err := db.CreateTable(ctx, "users", 0)
	require.NoError(t, err)
	assert.Equal(t, "users", users.Name())
	assert.Equal(t, btreego.DefaultOrder, users.Order())
	assert.False(t, users.CreatedAt().IsZero())

	wide, err := db.CreateTable(ctx, "wide", 64)
	require.NoError(t, err)
	assert.Equal(t, 64, wide.Order())

	_, err = db.CreateTable(ctx, "users", 0)
	assert.ErrorIs(t, err, btreego.ErrTableExists)

	_, err = db.CreateTable(ctx, "", 0)
	assert.ErrorIs(t, err, btreego.ErrInvalidTableName)

	_, err = db.CreateTable(ctx, "tiny", 2)
	assert.ErrorIs(t, err, btreego.ErrInvalidOrder)
}

func TestDB_DefaultOrderOption(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, btreego.WithOrder(8))

	tab, err := db.CreateTable(ctx, "events", 0)
	require.NoError(t, err)
	assert.Equal(t, 8, tab.Order())
}

func TestDB_TableLookup(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	tab, err := db.Table("users")
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())

	_, err = db.Table("missing")
	assert.ErrorIs(t, err, btreego.ErrTableNotFound)
}

func TestDB_DropTable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := seedUsers(t, db)

	require.NoError(t, db.DropTable(ctx, "users"))
	assert.Empty(t, db.Tables())

	err := db.DropTable(ctx, "users")
	assert.ErrorIs(t, err, btreego.ErrTableNotFound)

	// The stale handle must refuse further work.
	err = users.Insert(ctx, model.IntKey(9), model.Record{"name": "eve"})
	assert.ErrorIs(t, err, btreego.ErrTableNotFound)

	_, err = users.Get(ctx, model.IntKey(1))
	assert.ErrorIs(t, err, btreego.ErrTableNotFound)
}

func TestDB_Tables(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	for _, name := range []string{"orders", "users", "audit"} {
		_, err := db.CreateTable(ctx, name, 0)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"audit", "orders", "users"}, db.Tables())
}

func TestDB_SaveWithoutStore(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	_, err := db.Save(context.Background())
	assert.ErrorIs(t, err, btreego.ErrNoStore)
}

func TestDB_SaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	db := newTestDB(t, btreego.WithStore(store))
	seedUsers(t, db)

	orders, err := db.CreateTable(ctx, "orders", 6)
	require.NoError(t, err)
	err = orders.Insert(ctx, model.StringKey("o-1"), model.Record{"total": 9.5})
	require.NoError(t, err)

	man, err := db.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), man.ID)
	assert.Len(t, man.Tables, 2)

	restored, err := btreego.OpenFromStore(ctx, store)
	require.NoError(t, err)
	defer restored.Close()

	assert.Equal(t, []string{"orders", "users"}, restored.Tables())

	users, err := restored.Table("users")
	require.NoError(t, err)
	assert.Equal(t, 3, users.Len())
	assert.Equal(t, btreego.DefaultOrder, users.Order())
	require.NoError(t, users.Tree().Check())

	rec, err := users.Get(ctx, model.IntKey(2))
	require.NoError(t, err)
	assert.Equal(t, model.Record{"name": "grace"}, rec)

	restoredOrders, err := restored.Table("orders")
	require.NoError(t, err)
	assert.Equal(t, 6, restoredOrders.Order())

	rec, err = restoredOrders.Get(ctx, model.StringKey("o-1"))
	require.NoError(t, err)
	assert.Equal(t, model.Record{"total": 9.5}, rec)
}

func TestDB_OpenFromEmptyStore(t *testing.T) {
	ctx := context.Background()

	db, err := btreego.OpenFromStore(ctx, blobstore.NewMemoryStore())
	require.NoError(t, err)
	defer db.Close()

	assert.Empty(t, db.Tables())
}

func TestDB_Autosave(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	db := newTestDB(t, btreego.WithStore(store), btreego.WithAutosave(true))

	users, err := db.CreateTable(ctx, "users", 0)
	require.NoError(t, err)
	require.NoError(t, users.Insert(ctx, model.IntKey(1), model.Record{"name": "ada"}))
	require.NoError(t, users.Insert(ctx, model.IntKey(2), model.Record{"name": "grace"}))
	require.NoError(t, users.Delete(ctx, model.IntKey(1)))

	// Four mutations, four committed versions.
	current, err := manifest.NewStore(store).CurrentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), current)

	restored, err := btreego.OpenFromStore(ctx, store)
	require.NoError(t, err)
	defer restored.Close()

	tab, err := restored.Table("users")
	require.NoError(t, err)
	assert.Equal(t, 1, tab.Len())

	_, err = tab.Get(ctx, model.IntKey(1))
	assert.ErrorIs(t, err, btreego.ErrNotFound)
}

// failingStore rejects every blob creation, simulating a broken backend.
type failingStore struct {
	*blobstore.MemoryStore
}

func (s *failingStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return nil, errors.New("backend unavailable")
}

func TestDB_AutosaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: blobstore.NewMemoryStore()}

	db := newTestDB(t, btreego.WithStore(store), btreego.WithAutosave(true))

	_, err := db.CreateTable(ctx, "users", 0)
	require.ErrorContains(t, err, "backend unavailable")

	// The table exists in memory even though the save failed.
	users, err := db.Table("users")
	require.NoError(t, err)

	err = users.Insert(ctx, model.IntKey(1), model.Record{"name": "ada"})
	require.ErrorContains(t, err, "backend unavailable")

	rec, err := users.Get(ctx, model.IntKey(1))
	require.NoError(t, err)
	assert.Equal(t, model.Record{"name": "ada"}, rec)
}

func TestDB_MetricsCollection(t *testing.T) {
	ctx := context.Background()
	collector := &btreego.BasicMetricsCollector{}
	store := blobstore.NewMemoryStore()

	db := newTestDB(t, btreego.WithStore(store), btreego.WithMetricsCollector(collector))
	users := seedUsers(t, db)

	_, err := users.Get(ctx, model.IntKey(1))
	require.NoError(t, err)
	_, err = users.Get(ctx, model.IntKey(99))
	require.Error(t, err)

	entries, err := users.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	_, err = db.Save(ctx)
	require.NoError(t, err)

	stats := collector.GetStats()
	assert.Equal(t, int64(3), stats.InsertCount)
	assert.Equal(t, int64(0), stats.InsertErrors)
	assert.Equal(t, int64(2), stats.GetCount)
	assert.Equal(t, int64(1), stats.GetErrors)
	assert.Equal(t, int64(1), stats.RangeScanCount)
	assert.Equal(t, int64(3), stats.RangeScanResults)
	assert.Equal(t, int64(1), stats.SnapshotCount)
	assert.Equal(t, int64(1), stats.SnapshotTables)
}
