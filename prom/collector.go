// Package prom exports database metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/btreego"
)

// Collector implements btreego.MetricsCollector on top of Prometheus
// primitives. Operation latency and counts carry op and status labels;
// scan result sizes get their own histogram.
type Collector struct {
	opLatency      *prometheus.HistogramVec
	ops            *prometheus.CounterVec
	scanResults    prometheus.Histogram
	snapshotTables prometheus.Gauge
}

var _ btreego.MetricsCollector = (*Collector)(nil)

// NewCollector registers the database metrics with reg and returns the
// collector. A nil reg uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		opLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "btreego_operation_latency_seconds",
			Help:    "Latency of database operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "btreego_operations_total",
			Help: "Total database operations",
		}, []string{"op", "status"}),
		scanResults: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "btreego_range_scan_results",
			Help:    "Entries returned per scan or range query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		snapshotTables: factory.NewGauge(prometheus.GaugeOpts{
			Name: "btreego_snapshot_tables",
			Help: "Tables in the most recent snapshot",
		}),
	}
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}

// RecordInsert implements btreego.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.observe("insert", d, err)
}

// RecordGet implements btreego.MetricsCollector.
func (c *Collector) RecordGet(d time.Duration, err error) {
	c.observe("get", d, err)
}

// RecordUpdate implements btreego.MetricsCollector.
func (c *Collector) RecordUpdate(d time.Duration, err error) {
	c.observe("update", d, err)
}

// RecordDelete implements btreego.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) {
	c.observe("delete", d, err)
}

// RecordRangeScan implements btreego.MetricsCollector.
func (c *Collector) RecordRangeScan(results int, d time.Duration, err error) {
	c.observe("range_scan", d, err)
	if err == nil {
		c.scanResults.Observe(float64(results))
	}
}

// RecordSnapshot implements btreego.MetricsCollector.
func (c *Collector) RecordSnapshot(tables int, d time.Duration, err error) {
	c.observe("snapshot", d, err)
	if err == nil {
		c.snapshotTables.Set(float64(tables))
	}
}
