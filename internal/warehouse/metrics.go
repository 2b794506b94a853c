//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts load activity per table. Each run gets its own registry
// so the counters can be written out as a node_exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	rowsAttempted *prometheus.CounterVec
	rowsInserted  *prometheus.CounterVec
	batches       *prometheus.CounterVec
	batchesFailed *prometheus.CounterVec
	batchSeconds  *prometheus.HistogramVec
}

// NewMetrics creates and registers the load metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsAttempted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retailwh",
			Name:      "load_rows_attempted_total",
			Help:      "Rows sent to the warehouse.",
		}, []string{"table"}),
		rowsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retailwh",
			Name:      "load_rows_inserted_total",
			Help:      "Rows written to the warehouse; the remainder already existed.",
		}, []string{"table"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retailwh",
			Name:      "load_batches_total",
			Help:      "Batches committed.",
		}, []string{"table"}),
		batchesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retailwh",
			Name:      "load_batches_failed_total",
			Help:      "Batches rolled back.",
		}, []string{"table"}),
		batchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "retailwh",
			Name:      "load_batch_duration_seconds",
			Help:      "Time to write one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"table"}),
	}
	m.registry.MustRegister(m.rowsAttempted, m.rowsInserted, m.batches, m.batchesFailed, m.batchSeconds)
	return m
}

// Registry returns the registry holding the load metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Register adds further collectors to the run's registry.
func (m *Metrics) Register(cs ...prometheus.Collector) {
	m.registry.MustRegister(cs...)
}

// WriteTextfile writes the metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(table string, attempted, inserted int64, elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.batchSeconds.WithLabelValues(table).Observe(elapsed.Seconds())
	m.rowsAttempted.WithLabelValues(table).Add(float64(attempted))
	if failed {
		m.batchesFailed.WithLabelValues(table).Inc()
		return
	}
	m.rowsInserted.WithLabelValues(table).Add(float64(inserted))
	m.batches.WithLabelValues(table).Inc()
}
