package btreego

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/btreego/blobstore"
	"github.com/hupe1980/btreego/bptree"
	"github.com/hupe1980/btreego/manifest"
	"github.com/hupe1980/btreego/model"
	"github.com/hupe1980/btreego/persistence"
)

// DefaultOrder is the tree order used by CreateTable when the caller passes
// order zero and no WithOrder option overrides it.
const DefaultOrder = 4

// DB is a catalog of named tables, each backed by an in-memory B+ tree.
// All methods are safe for concurrent use; tables share one catalog lock.
type DB struct {
	mu     sync.RWMutex
	tables map[string]*Table
	closed bool

	order      int
	manager    *persistence.Manager
	autosaveOn bool
	metrics    MetricsCollector
	logger     *Logger
}

// New creates an empty database.
func New(optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns...)

	if opts.order < bptree.MinOrder {
		return nil, &ErrOrderTooSmall{Order: opts.order, cause: bptree.ErrInvalidOrder}
	}
	if opts.autosave && opts.store == nil {
		return nil, fmt.Errorf("autosave requires a blob store: %w", ErrNoStore)
	}

	db := &DB{
		tables:     make(map[string]*Table),
		order:      opts.order,
		autosaveOn: opts.autosave,
		metrics:    opts.metricsCollector,
		logger:     opts.logger,
	}

	if opts.store != nil {
		manager, err := persistence.NewManager(persistence.ManagerOptions{
			Store:       opts.store,
			Codec:       opts.codec,
			Compression: opts.compression,
			Controller:  opts.controller,
		})
		if err != nil {
			return nil, err
		}
		db.manager = manager
	}

	return db, nil
}

// OpenFromStore creates a database wired to store and loads the catalog the
// store's current manifest points to. A fresh store yields an empty
// database.
func OpenFromStore(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*DB, error) {
	fns := append(slices.Clone(optFns), WithStore(store))

	db, err := New(fns...)
	if err != nil {
		return nil, err
	}
	if err := db.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// CreateTable adds a new empty table. Order zero selects the database
// default.
func (db *DB) CreateTable(ctx context.Context, name string, order int) (*Table, error) {
	if order == 0 {
		order = db.order
	}

	tab, err := db.createTable(name, order)
	if err == nil {
		err = db.autosave(ctx)
	}
	err = translateError(err)

	db.logger.LogCreateTable(ctx, name, order, err)

	if err != nil {
		return nil, err
	}
	return tab, nil
}

func (db *DB) createTable(name string, order int) (*Table, error) {
	if name == "" {
		return nil, ErrInvalidTableName
	}

	tree, err := bptree.New[model.Key, model.Record](order, model.Compare)
	if err != nil {
		if errors.Is(err, bptree.ErrInvalidOrder) {
			return nil, &ErrOrderTooSmall{Order: order, cause: err}
		}
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrClosed
	}
	if _, ok := db.tables[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, name)
	}

	tab := &Table{db: db, name: name, createdAt: time.Now(), tree: tree}
	db.tables[name] = tab

	return tab, nil
}

// Table returns the named table.
func (db *DB) Table(name string) (*Table, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	tab, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return tab, nil
}

// DropTable removes the named table and its records.
func (db *DB) DropTable(ctx context.Context, name string) error {
	err := db.dropTable(name)
	if err == nil {
		err = db.autosave(ctx)
	}
	err = translateError(err)

	db.logger.LogDropTable(ctx, name, err)

	return err
}

func (db *DB) dropTable(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	if _, ok := db.tables[name]; !ok {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}

	delete(db.tables, name)
	return nil
}

// Tables returns the table names in ascending order.
func (db *DB) Tables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Save writes a snapshot of every table to the configured blob store and
// commits it as the next manifest version.
func (db *DB) Save(ctx context.Context) (*manifest.Manifest, error) {
	start := time.Now()

	man, tables, err := db.save(ctx)
	err = translateError(err)

	var version uint64
	if man != nil {
		version = man.ID
	}
	db.metrics.RecordSnapshot(tables, time.Since(start), err)
	db.logger.LogSnapshot(ctx, version, tables, err)

	if err != nil {
		return nil, err
	}
	return man, nil
}

func (db *DB) save(ctx context.Context) (*manifest.Manifest, int, error) {
	if db.manager == nil {
		return nil, 0, ErrNoStore
	}

	snaps, err := db.snapshotAll()
	if err != nil {
		return nil, 0, err
	}

	man, err := db.manager.Save(ctx, snaps)
	if err != nil {
		return nil, len(snaps), err
	}
	return man, len(snaps), nil
}

// snapshotAll captures every table under the read lock so a save observes
// a consistent catalog.
func (db *DB) snapshotAll() ([]*persistence.Snapshot, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	slices.Sort(names)

	snaps := make([]*persistence.Snapshot, 0, len(names))
	for _, name := range names {
		snaps = append(snaps, db.tables[name].snapshot())
	}
	return snaps, nil
}

// autosave persists the catalog after a successful mutation when the
// autosave option is enabled. The mutation stands even when the save
// fails; the caller reports the save error.
func (db *DB) autosave(ctx context.Context) error {
	if !db.autosaveOn {
		return nil
	}
	_, err := db.Save(ctx)
	return err
}

// load replaces the catalog with the tables of the store's current
// manifest.
func (db *DB) load(ctx context.Context) error {
	start := time.Now()

	snaps, man, err := db.manager.Load(ctx)
	if err == nil {
		err = db.install(snaps)
	}
	err = translateError(err)

	var version uint64
	if man != nil {
		version = man.ID
	}
	db.metrics.RecordSnapshot(len(snaps), time.Since(start), err)
	db.logger.LogLoad(ctx, version, len(snaps), err)

	return err
}

func (db *DB) install(snaps []*persistence.Snapshot) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}

	now := time.Now()
	for _, snap := range snaps {
		tree, err := bptree.BulkLoad(snap.Order, model.Compare, itemSeq(snap.Items))
		if err != nil {
			return fmt.Errorf("load table %q: %w", snap.Table, err)
		}
		db.tables[snap.Table] = &Table{db: db, name: snap.Table, createdAt: now, tree: tree}
	}
	return nil
}

// itemSeq adapts snapshot items to the sorted sequence BulkLoad expects.
// Snapshots are written in ascending key order, so no re-sort is needed.
func itemSeq(items []persistence.Item) iter.Seq2[model.Key, model.Record] {
	return func(yield func(model.Key, model.Record) bool) {
		for _, it := range items {
			if !yield(it.Key, it.Value) {
				return
			}
		}
	}
}
