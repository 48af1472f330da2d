package btreego

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/btreego/bptree"
	"github.com/hupe1980/btreego/model"
	"github.com/hupe1980/btreego/persistence"
	"github.com/hupe1980/btreego/render"
)

// Entry is a key/value pair returned by scans and range queries.
type Entry struct {
	Key   model.Key    `json:"key"`
	Value model.Record `json:"value"`
}

// Table is a named ordered collection of records backed by a B+ tree.
// All access goes through the owning DB's lock, so Table handles are safe
// for concurrent use. Records are copied on write and on read; the tree
// never aliases caller maps.
type Table struct {
	db        *DB
	name      string
	createdAt time.Time
	tree      *bptree.Tree[model.Key, model.Record]
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// CreatedAt returns the time the table was created in this process.
func (t *Table) CreatedAt() time.Time { return t.createdAt }

// Order returns the tree order the table was created with.
func (t *Table) Order() int { return t.tree.Order() }

// Insert stores value under key, replacing any existing record.
func (t *Table) Insert(ctx context.Context, key model.Key, value model.Record) error {
	start := time.Now()

	err := t.insert(key, value)
	if err == nil {
		err = t.db.autosave(ctx)
	}
	err = translateError(err)

	t.db.metrics.RecordInsert(time.Since(start), err)
	t.db.logger.LogInsert(ctx, t.name, key, err)

	return err
}

func (t *Table) insert(key model.Key, value model.Record) error {
	if key.IsZero() {
		return ErrInvalidKey
	}
	return t.write(func() error {
		t.tree.Insert(key, value.Clone())
		return nil
	})
}

// Get returns the record stored under key.
func (t *Table) Get(ctx context.Context, key model.Key) (model.Record, error) {
	start := time.Now()

	value, err := t.get(key)
	err = translateError(err)

	t.db.metrics.RecordGet(time.Since(start), err)
	t.db.logger.LogGet(ctx, t.name, key, err)

	return value, err
}

func (t *Table) get(key model.Key) (model.Record, error) {
	if key.IsZero() {
		return nil, ErrInvalidKey
	}
	var value model.Record
	err := t.read(func() error {
		v, ok := t.tree.Get(key)
		if !ok {
			return fmt.Errorf("%w: %s in %q", ErrNotFound, key, t.name)
		}
		value = v.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Update replaces the record stored under key. Unlike Insert it fails with
// ErrNotFound when the key is absent.
func (t *Table) Update(ctx context.Context, key model.Key, value model.Record) error {
	start := time.Now()

	err := t.update(key, value)
	if err == nil {
		err = t.db.autosave(ctx)
	}
	err = translateError(err)

	t.db.metrics.RecordUpdate(time.Since(start), err)
	t.db.logger.LogUpdate(ctx, t.name, key, err)

	return err
}

func (t *Table) update(key model.Key, value model.Record) error {
	if key.IsZero() {
		return ErrInvalidKey
	}
	return t.write(func() error {
		if !t.tree.Contains(key) {
			return fmt.Errorf("%w: %s in %q", ErrNotFound, key, t.name)
		}
		t.tree.Insert(key, value.Clone())
		return nil
	})
}

// Delete removes the record stored under key.
func (t *Table) Delete(ctx context.Context, key model.Key) error {
	start := time.Now()

	err := t.delete(key)
	if err == nil {
		err = t.db.autosave(ctx)
	}
	err = translateError(err)

	t.db.metrics.RecordDelete(time.Since(start), err)
	t.db.logger.LogDelete(ctx, t.name, key, err)

	return err
}

func (t *Table) delete(key model.Key) error {
	if key.IsZero() {
		return ErrInvalidKey
	}
	return t.write(func() error {
		if !t.tree.Delete(key) {
			return fmt.Errorf("%w: %s in %q", ErrNotFound, key, t.name)
		}
		return nil
	})
}

// Scan returns every entry in ascending key order.
func (t *Table) Scan(ctx context.Context) ([]Entry, error) {
	start := time.Now()

	entries, err := t.collect(t.tree.All)
	err = translateError(err)

	t.db.metrics.RecordRangeScan(len(entries), time.Since(start), err)
	t.db.logger.LogRangeScan(ctx, t.name, len(entries), err)

	return entries, err
}

// Range returns every entry with start <= key <= end in ascending key
// order. Both bounds are inclusive; an inverted range yields no entries.
func (t *Table) Range(ctx context.Context, start, end model.Key) ([]Entry, error) {
	began := time.Now()

	entries, err := t.rangeScan(start, end)
	err = translateError(err)

	t.db.metrics.RecordRangeScan(len(entries), time.Since(began), err)
	t.db.logger.LogRangeScan(ctx, t.name, len(entries), err)

	return entries, err
}

func (t *Table) rangeScan(start, end model.Key) ([]Entry, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrInvalidKey
	}
	return t.collect(func() iter.Seq2[model.Key, model.Record] {
		return t.tree.Range(start, end)
	})
}

func (t *Table) collect(seq func() iter.Seq2[model.Key, model.Record]) ([]Entry, error) {
	var entries []Entry
	err := t.read(func() error {
		for k, v := range seq() {
			entries = append(entries, Entry{Key: k, Value: v.Clone()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of records in the table, or zero once the table
// is dropped or the database is closed.
func (t *Table) Len() int {
	var n int
	_ = t.read(func() error {
		n = t.tree.Len()
		return nil
	})
	return n
}

// Stats returns structural statistics about the table's tree.
func (t *Table) Stats() bptree.TreeStats {
	var s bptree.TreeStats
	_ = t.read(func() error {
		s = t.tree.Stats()
		return nil
	})
	return s
}

// DOT renders the table's tree in Graphviz DOT format. The table name is
// used as the graph title unless overridden.
func (t *Table) DOT(optFns ...func(*render.Options)) string {
	var out string
	_ = t.read(func() error {
		fns := append([]func(*render.Options){render.WithTitle(t.name)}, optFns...)
		out = render.DOT(t.tree, fns...)
		return nil
	})
	return out
}

// Text renders the table's tree as one line of bracketed key lists per
// level.
func (t *Table) Text() string {
	var out string
	_ = t.read(func() error {
		out = render.Text(t.tree)
		return nil
	})
	return out
}

// Tree returns the underlying B+ tree. It is intended for read-only
// inspection; mutating it bypasses the catalog lock.
func (t *Table) Tree() *bptree.Tree[model.Key, model.Record] { return t.tree }

// snapshot captures the table contents in ascending key order. The caller
// must hold the catalog lock. Values are cloned so the snapshot can be
// encoded after the lock is released.
func (t *Table) snapshot() *persistence.Snapshot {
	items := make([]persistence.Item, 0, t.tree.Len())
	for k, v := range t.tree.All() {
		items = append(items, persistence.Item{Key: k, Value: v.Clone()})
	}
	return &persistence.Snapshot{
		Table: t.name,
		Order: t.tree.Order(),
		Items: items,
	}
}

// write runs fn under the catalog write lock, rejecting tables that were
// dropped after the handle was obtained.
func (t *Table) write(fn func() error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if t.db.closed {
		return ErrClosed
	}
	if t.db.tables[t.name] != t {
		return fmt.Errorf("%w: %q", ErrTableNotFound, t.name)
	}

	return fn()
}

// read is the read-lock counterpart of write.
func (t *Table) read(fn func() error) error {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	if t.db.closed {
		return ErrClosed
	}
	if t.db.tables[t.name] != t {
		return fmt.Errorf("%w: %q", ErrTableNotFound, t.name)
	}

	return fn()
}
