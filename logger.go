package btreego

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/btreego/model"
)

// Logger wraps slog.Logger with btreego-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(table string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", table),
	}
}

// WithKey adds a key field to the logger.
func (l *Logger) WithKey(key model.Key) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key.String()),
	}
}

// WithOrder adds a tree order field to the logger.
func (l *Logger) WithOrder(order int) *Logger {
	return &Logger{
		Logger: l.Logger.With("order", order),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, table string, key model.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"table", table,
			"key", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"table", table,
			"key", key.String(),
		)
	}
}

// LogGet logs a point lookup.
func (l *Logger) LogGet(ctx context.Context, table string, key model.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get failed",
			"table", table,
			"key", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get completed",
			"table", table,
			"key", key.String(),
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, table string, key model.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"table", table,
			"key", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"table", table,
			"key", key.String(),
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, table string, key model.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"table", table,
			"key", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"table", table,
			"key", key.String(),
		)
	}
}

// LogRangeScan logs a scan or range query.
func (l *Logger) LogRangeScan(ctx context.Context, table string, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range scan failed",
			"table", table,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range scan completed",
			"table", table,
			"results", results,
		)
	}
}

// LogCreateTable logs a table creation.
func (l *Logger) LogCreateTable(ctx context.Context, table string, order int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create table failed",
			"table", table,
			"order", order,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "table created",
			"table", table,
			"order", order,
		)
	}
}

// LogDropTable logs a table drop.
func (l *Logger) LogDropTable(ctx context.Context, table string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "drop table failed",
			"table", table,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "table dropped",
			"table", table,
		)
	}
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, version uint64, tables int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"version", version,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"version", version,
			"tables", tables,
		)
	}
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, version uint64, tables int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"version", version,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"version", version,
			"tables", tables,
		)
	}
}
