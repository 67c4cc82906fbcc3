package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Recalculation metrics
	RecalculationsTotal    *prometheus.CounterVec
	RecalculationDuration  prometheus.Histogram
	LedgerRowsWritten      prometheus.Histogram
	InvariantViolations    prometheus.Counter
	LockAcquisitionsFailed prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Recalculation metrics
		RecalculationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_recalculations_total",
				Help: "Total number of account recalculations by outcome",
			},
			[]string{"outcome"},
		),
		RecalculationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_recalculation_duration_seconds",
			Help:    "Duration of account recalculations",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerRowsWritten: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_ledger_rows_written",
			Help:    "Ledger rows materialized per recalculation",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		InvariantViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_invariant_violations_total",
			Help: "Total number of balance invariant violations detected",
		}),
		LockAcquisitionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_lock_acquisitions_failed_total",
			Help: "Total number of failed account lock acquisitions",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookkeeper_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookkeeper_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bookkeeper_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}

// RecalculationObserved records one finished recalculation pass.
func (m *Metrics) RecalculationObserved(outcome string, duration time.Duration, rowsWritten int) {
	m.RecalculationsTotal.WithLabelValues(outcome).Inc()
	m.RecalculationDuration.Observe(duration.Seconds())
	m.LedgerRowsWritten.Observe(float64(rowsWritten))
}

// InvariantViolationObserved records a detected balance invariant violation.
func (m *Metrics) InvariantViolationObserved() {
	m.InvariantViolations.Inc()
}

// LockContentionObserved records a recalculation that gave up waiting for
// its account lock.
func (m *Metrics) LockContentionObserved() {
	m.LockAcquisitionsFailed.Inc()
}
