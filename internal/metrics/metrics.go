// Package metrics exposes the storage engine's Prometheus gauges,
// counters and histograms, following the same registration-at-init-time
// pattern as cuemby-warren's pkg/metrics/metrics.go.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Transaction metrics
	TransactionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quarrydb_transactions_active",
			Help: "Number of transactions currently open",
		},
	)

	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarrydb_transactions_total",
			Help: "Total number of transactions by outcome",
		},
		[]string{"outcome"},
	)

	TransactionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quarrydb_transaction_duration_seconds",
			Help:    "Transaction lifetime from begin to commit/rollback",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Buffer pool metrics
	BufferPoolAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quarrydb_buffer_pool_available",
			Help: "Number of unpinned buffer frames available for replacement",
		},
	)

	BufferPins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarrydb_buffer_pins_total",
			Help: "Total buffer pin requests by result",
		},
		[]string{"result"},
	)

	// WAL metrics
	LogFlushesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quarrydb_log_flushes_total",
			Help: "Total number of write-ahead log flushes",
		},
	)

	LogBytesWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quarrydb_log_bytes_written_total",
			Help: "Total bytes appended to the write-ahead log",
		},
	)

	// Lock table metrics
	LockWaitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarrydb_lock_waits_total",
			Help: "Total number of times a transaction had to wait for a lock, by lock kind",
		},
		[]string{"kind"},
	)

	DeadlocksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quarrydb_deadlocks_total",
			Help: "Total number of lock waits aborted on timeout",
		},
	)

	// Recovery metrics
	RecoveriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quarrydb_recoveries_total",
			Help: "Total number of undo-recovery passes run at startup",
		},
	)

	RecoveryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quarrydb_recovery_duration_seconds",
			Help:    "Time taken by an undo-recovery pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Index metrics
	BTreeSplitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quarrydb_btree_splits_total",
			Help: "Total number of B-tree leaf/directory page splits",
		},
	)

	IndexLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarrydb_index_lookups_total",
			Help: "Total index lookups by index type",
		},
		[]string{"type"},
	)

	// Query metrics
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarrydb_queries_total",
			Help: "Total queries executed by statement kind and result",
		},
		[]string{"kind", "result"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quarrydb_query_duration_seconds",
			Help:    "Query execution duration by statement kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		TransactionsActive,
		TransactionsTotal,
		TransactionDuration,
		BufferPoolAvailable,
		BufferPins,
		LogFlushesTotal,
		LogBytesWrittenTotal,
		LockWaitsTotal,
		DeadlocksTotal,
		RecoveriesTotal,
		RecoveryDuration,
		BTreeSplitsTotal,
		IndexLookupsTotal,
		QueriesTotal,
		QueryDuration,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed wall-clock time for recording into a histogram.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
