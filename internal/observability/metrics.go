// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Watch metrics
	CyclesTotal      *prometheus.CounterVec
	CycleDuration    *prometheus.HistogramVec
	PairsFetched     *prometheus.CounterVec
	SnapshotsSkipped *prometheus.CounterVec

	// Analysis metrics
	PairsClassified     *prometheus.CounterVec
	EventsDetected      *prometheus.CounterVec
	SignalsEmitted      *prometheus.CounterVec
	BlacklistSize       prometheus.Gauge
	MarketVolatility    prometheus.Gauge
	ThresholdAdjustment prometheus.Gauge

	// Oracle metrics
	OracleCalls   *prometheus.CounterVec
	OracleLatency *prometheus.HistogramVec

	// Storage metrics
	StorageErrors *prometheus.CounterVec

	// Dispatch metrics
	DeliveriesTotal   *prometheus.CounterVec
	DeliveriesDropped prometheus.Counter
	QueueDepth        prometheus.Gauge

	// Health metrics
	LastSuccessfulCycle prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dexwatch"
	}

	return &Metrics{
		// Watch metrics
		CyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "cycles_total",
			Help:      "Total number of poll cycles by chain and status",
		}, []string{"chain", "status"}),
		CycleDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "cycle_duration_seconds",
			Help:      "Poll cycle duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"chain"}),
		PairsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "pairs_fetched_total",
			Help:      "Total number of pair snapshots fetched by chain",
		}, []string{"chain"}),
		SnapshotsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "snapshots_skipped_total",
			Help:      "Total number of snapshots rejected at the boundary",
		}, []string{"chain"}),

		// Analysis metrics
		PairsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "pairs_classified_total",
			Help:      "Total number of snapshots classified by outcome",
		}, []string{"classification"}),
		EventsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "events_detected_total",
			Help:      "Total number of analysis events by type",
		}, []string{"event_type"}),
		SignalsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "signals_emitted_total",
			Help:      "Total number of trade signals by action",
		}, []string{"action"}),
		BlacklistSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "blacklist_size",
			Help:      "Current number of blacklisted coin entries",
		}),
		MarketVolatility: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "market_volatility",
			Help:      "Stddev of recent price changes feeding the adaptive thresholds",
		}),
		ThresholdAdjustment: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "threshold_adjustment",
			Help:      "Current adaptive threshold multiplier",
		}),

		// Oracle metrics
		OracleCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Total number of oracle calls by service and outcome",
		}, []string{"service", "outcome"}),
		OracleLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "call_latency_seconds",
			Help:      "Oracle call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),

		// Storage metrics
		StorageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of storage errors by store",
		}, []string{"store"}),

		// Dispatch metrics
		DeliveriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "deliveries_total",
			Help:      "Total number of deliveries by kind and status",
		}, []string{"kind", "status"}),
		DeliveriesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "deliveries_dropped_total",
			Help:      "Total number of deliveries dropped on queue overflow",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Current number of queued deliveries",
		}),

		// Health metrics
		LastSuccessfulCycle: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_cycle_timestamp",
			Help:      "Unix timestamp of the last completed poll cycle",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCycle records one completed poll cycle for a chain.
func RecordCycle(chain, status string, durationSeconds float64) {
	DefaultMetrics.CyclesTotal.WithLabelValues(chain, status).Inc()
	DefaultMetrics.CycleDuration.WithLabelValues(chain).Observe(durationSeconds)
}

// RecordPairsFetched adds to the fetched-snapshot counter for a chain.
func RecordPairsFetched(chain string, n int) {
	DefaultMetrics.PairsFetched.WithLabelValues(chain).Add(float64(n))
}

// RecordSnapshotSkipped increments the boundary-rejection counter.
func RecordSnapshotSkipped(chain string) {
	DefaultMetrics.SnapshotsSkipped.WithLabelValues(chain).Inc()
}

// RecordClassification increments the per-outcome classification counter.
func RecordClassification(classification string) {
	DefaultMetrics.PairsClassified.WithLabelValues(classification).Inc()
}

// RecordEventDetected increments the per-type detection counter.
func RecordEventDetected(eventType string) {
	DefaultMetrics.EventsDetected.WithLabelValues(eventType).Inc()
}

// RecordSignalEmitted increments the per-action signal counter.
func RecordSignalEmitted(action string) {
	DefaultMetrics.SignalsEmitted.WithLabelValues(action).Inc()
}

// SetBlacklistSize updates the blacklist size gauge.
func SetBlacklistSize(n int) {
	DefaultMetrics.BlacklistSize.Set(float64(n))
}

// SetThresholdState updates the volatility and adjustment gauges.
func SetThresholdState(volatility, adjustment float64) {
	DefaultMetrics.MarketVolatility.Set(volatility)
	DefaultMetrics.ThresholdAdjustment.Set(adjustment)
}

// RecordOracleCall records an oracle call outcome and latency.
func RecordOracleCall(service, outcome string, seconds float64) {
	DefaultMetrics.OracleCalls.WithLabelValues(service, outcome).Inc()
	DefaultMetrics.OracleLatency.WithLabelValues(service).Observe(seconds)
}

// RecordStorageError increments the per-store error counter.
func RecordStorageError(store string) {
	DefaultMetrics.StorageErrors.WithLabelValues(store).Inc()
}

// RecordDelivery records one dispatcher delivery attempt.
func RecordDelivery(kind, status string) {
	DefaultMetrics.DeliveriesTotal.WithLabelValues(kind, status).Inc()
}

// RecordDeliveryDropped increments the overflow-drop counter.
func RecordDeliveryDropped() {
	DefaultMetrics.DeliveriesDropped.Inc()
}

// SetQueueDepth updates the dispatcher queue depth gauge.
func SetQueueDepth(n int) {
	DefaultMetrics.QueueDepth.Set(float64(n))
}

// SetLastSuccessfulCycle updates the health timestamp gauge.
func SetLastSuccessfulCycle(unixSeconds int64) {
	DefaultMetrics.LastSuccessfulCycle.Set(float64(unixSeconds))
}
