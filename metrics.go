package btreego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    insertCounter  prometheus.Counter
//	    getHistogram   prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordInsert(duration time.Duration, err error) {
//	    p.insertCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordGet is called after each point lookup.
	RecordGet(duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordRangeScan is called after each scan or range query.
	// results is the number of entries returned.
	RecordRangeScan(results int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	// tables is the number of tables in the snapshot.
	RecordSnapshot(tables int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)         {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)            {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)         {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)         {}
func (NoopMetricsCollector) RecordRangeScan(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshot(int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount         atomic.Int64
	InsertErrors        atomic.Int64
	InsertTotalNanos    atomic.Int64
	GetCount            atomic.Int64
	GetErrors           atomic.Int64
	GetTotalNanos       atomic.Int64
	UpdateCount         atomic.Int64
	UpdateErrors        atomic.Int64
	DeleteCount         atomic.Int64
	DeleteErrors        atomic.Int64
	RangeScanCount      atomic.Int64
	RangeScanErrors     atomic.Int64
	RangeScanResults    atomic.Int64
	RangeScanTotalNanos atomic.Int64
	SnapshotCount       atomic.Int64
	SnapshotErrors      atomic.Int64
	SnapshotTables      atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordRangeScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRangeScan(results int, duration time.Duration, err error) {
	b.RangeScanCount.Add(1)
	b.RangeScanResults.Add(int64(results))
	b.RangeScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RangeScanErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(tables int, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotTables.Add(int64(tables))
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:       b.InsertCount.Load(),
		InsertErrors:      b.InsertErrors.Load(),
		InsertAvgNanos:    b.getAvgInsertNanos(),
		GetCount:          b.GetCount.Load(),
		GetErrors:         b.GetErrors.Load(),
		GetAvgNanos:       b.getAvgGetNanos(),
		UpdateCount:       b.UpdateCount.Load(),
		UpdateErrors:      b.UpdateErrors.Load(),
		DeleteCount:       b.DeleteCount.Load(),
		DeleteErrors:      b.DeleteErrors.Load(),
		RangeScanCount:    b.RangeScanCount.Load(),
		RangeScanErrors:   b.RangeScanErrors.Load(),
		RangeScanResults:  b.RangeScanResults.Load(),
		RangeScanAvgNanos: b.getAvgRangeScanNanos(),
		SnapshotCount:     b.SnapshotCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
		SnapshotTables:    b.SnapshotTables.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgInsertNanos() int64 {
	count := b.InsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.InsertTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgGetNanos() int64 {
	count := b.GetCount.Load()
	if count == 0 {
		return 0
	}
	return b.GetTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgRangeScanNanos() int64 {
	count := b.RangeScanCount.Load()
	if count == 0 {
		return 0
	}
	return b.RangeScanTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount       int64
	InsertErrors      int64
	InsertAvgNanos    int64
	GetCount          int64
	GetErrors         int64
	GetAvgNanos       int64
	UpdateCount       int64
	UpdateErrors      int64
	DeleteCount       int64
	DeleteErrors      int64
	RangeScanCount    int64
	RangeScanErrors   int64
	RangeScanResults  int64
	RangeScanAvgNanos int64
	SnapshotCount     int64
	SnapshotErrors    int64
	SnapshotTables    int64
}
