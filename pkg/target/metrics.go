// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package target

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the target.
type Metrics struct {
	RecordsWritten     prometheus.Counter
	RecordsSkipped     prometheus.Counter
	ValidationWarnings prometheus.Counter
	BatchesFlushed     prometheus.Counter
	FlushDuration      prometheus.Histogram
	StreamsActive      prometheus.Gauge
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics creates a new Metrics instance with registered Prometheus
// metrics. Metrics are only registered once (singleton to avoid double
// registration).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			RecordsWritten: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "target_ldif",
				Subsystem: "sink",
				Name:      "records_written_total",
				Help:      "Total number of records written to LDIF files",
			}),
			RecordsSkipped: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "target_ldif",
				Subsystem: "sink",
				Name:      "records_skipped_total",
				Help:      "Total number of records skipped due to DN generation failures",
			}),
			ValidationWarnings: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "target_ldif",
				Subsystem: "sink",
				Name:      "validation_warnings_total",
				Help:      "Total number of records with soft validation findings",
			}),
			BatchesFlushed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "target_ldif",
				Subsystem: "sink",
				Name:      "batches_flushed_total",
				Help:      "Total number of record batches drained to writers",
			}),
			FlushDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "target_ldif",
				Subsystem: "sink",
				Name:      "flush_duration_seconds",
				Help:      "Duration of record batch drains",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 100us to ~3s
			}),
			StreamsActive: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "target_ldif",
				Subsystem: "sink",
				Name:      "streams_active",
				Help:      "Number of streams with an open LDIF writer",
			}),
		}
	})
	return metricsInstance
}
