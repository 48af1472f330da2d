package btreego

import (
	"github.com/hupe1980/btreego/blobstore"
	"github.com/hupe1980/btreego/codec"
	"github.com/hupe1980/btreego/persistence"
	"github.com/hupe1980/btreego/resource"
)

// options holds the configuration assembled by functional options.
type options struct {
	order            int
	store            blobstore.BlobStore
	codec            codec.Codec
	compression      persistence.Compression
	controller       *resource.Controller
	autosave         bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a DB.
type Option func(*options)

// applyOptions builds the effective configuration, starting from defaults.
// Nil option funcs are ignored.
func applyOptions(optFns ...Option) options {
	opts := options{
		order:            DefaultOrder,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts
}

// WithOrder sets the default tree order used by CreateTable when the caller
// passes order zero.
func WithOrder(order int) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithStore attaches a blob store for snapshot persistence. Without a store
// the database is purely in-memory and Save returns ErrNoStore.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCodec sets the codec used to encode snapshot payloads.
// The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the compression applied to snapshot payloads.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithController bounds the memory, background concurrency, and IO
// throughput of snapshot saves and loads.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithAutosave persists the whole catalog after every successful mutation.
// When a save fails the in-memory change stands and the operation returns
// the save error. Requires a store.
func WithAutosave(enabled bool) Option {
	return func(o *options) {
		o.autosave = enabled
	}
}

// WithMetricsCollector sets the metrics collector for database operations.
// The default is NoopMetricsCollector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

// WithLogger sets the logger for database operations.
// The default is NoopLogger, which discards all output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
