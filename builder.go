package btreego

import (
	"context"

	"github.com/hupe1980/btreego/blobstore"
	"github.com/hupe1980/btreego/codec"
	"github.com/hupe1980/btreego/persistence"
	"github.com/hupe1980/btreego/resource"
)

// Builder assembles a DB with a fluent API. Builder values are immutable;
// every method returns a copy, so a partially configured builder can be
// shared and extended without side effects.
//
//	db, err := btreego.NewBuilder().
//		Order(8).
//		Store(store).
//		Zstd().
//		Autosave().
//		Build()
type Builder struct {
	order       int
	store       blobstore.BlobStore
	codec       codec.Codec
	compression persistence.Compression
	controller  *resource.Controller
	autosave    bool
	logger      *Logger
	metrics     MetricsCollector
}

// NewBuilder returns a Builder preset with the default tree order.
func NewBuilder() Builder {
	return Builder{order: DefaultOrder}
}

// Order sets the default tree order for new tables.
func (b Builder) Order(order int) Builder {
	b.order = order
	return b
}

// Store attaches a blob store for snapshot persistence.
func (b Builder) Store(store blobstore.BlobStore) Builder {
	b.store = store
	return b
}

// Codec sets the snapshot payload codec.
func (b Builder) Codec(c codec.Codec) Builder {
	b.codec = c
	return b
}

// Compression sets the snapshot compression.
func (b Builder) Compression(c persistence.Compression) Builder {
	b.compression = c
	return b
}

// LZ4 selects LZ4 snapshot compression.
func (b Builder) LZ4() Builder {
	b.compression = persistence.CompressionLZ4
	return b
}

// Zstd selects Zstandard snapshot compression.
func (b Builder) Zstd() Builder {
	b.compression = persistence.CompressionZstd
	return b
}

// Controller bounds the resource usage of snapshot saves and loads.
func (b Builder) Controller(rc *resource.Controller) Builder {
	b.controller = rc
	return b
}

// Autosave persists the catalog after every successful mutation.
func (b Builder) Autosave() Builder {
	b.autosave = true
	return b
}

// Logger sets the logger for database operations.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for database operations.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Build creates an empty database from the builder configuration.
func (b Builder) Build() (*DB, error) {
	return New(b.options()...)
}

// MustBuild is like Build but panics on error. Intended for setup code
// where the configuration is static.
func (b Builder) MustBuild() *DB {
	db, err := b.Build()
	if err != nil {
		panic(err)
	}
	return db
}

// Open creates the database and loads the catalog from the configured
// store. It fails with ErrNoStore when no store is set.
func (b Builder) Open(ctx context.Context) (*DB, error) {
	if b.store == nil {
		return nil, ErrNoStore
	}

	db, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := db.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (b Builder) options() []Option {
	opts := []Option{WithOrder(b.order)}

	if b.store != nil {
		opts = append(opts, WithStore(b.store))
	}
	if b.codec != nil {
		opts = append(opts, WithCodec(b.codec))
	}
	if b.compression != persistence.CompressionNone {
		opts = append(opts, WithCompression(b.compression))
	}
	if b.controller != nil {
		opts = append(opts, WithController(b.controller))
	}
	if b.autosave {
		opts = append(opts, WithAutosave(true))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}

	return opts
}
