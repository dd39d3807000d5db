// Package metrics provides Prometheus metrics for the regatta service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Submissions
	submissions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	unknownBoatTypes   *prometheus.CounterVec
	duplicates         prometheus.Counter
	dedupeEntries      prometheus.Gauge

	// Store (sheet gateway)
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	entriesRead  prometheus.Gauge
	malformed    prometheus.Counter

	// Leaderboards
	leaderboardLatency *prometheus.HistogramVec
	leaderboardEmpty   *prometheus.CounterVec
	fleetSize          prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // private registry served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "regatta",
		subsystem:        "fss",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_total",
		Help:        "Race entry submissions by outcome (stored, rejected, duplicate, failed)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_failures_total",
		Help:        "Rejected submissions by validation reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.unknownBoatTypes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unknown_boat_types_total",
		Help:        "Submissions scored with the neutral rating because the boat type is not in the table",
		ConstLabels: m.constLabels,
	}, []string{"strict"})

	m.duplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_duplicate_total",
		Help:        "Submissions ignored because their submission id was already stored",
		ConstLabels: m.constLabels,
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_latency_seconds",
		Help:        "Latency of entry store operations",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"op", "backend"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_errors_total",
		Help:        "Failed entry store operations",
		ConstLabels: m.constLabels,
	}, []string{"op", "backend"})

	m.entriesRead = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entries_read",
		Help:        "Number of rows returned by the last full read of the store",
		ConstLabels: m.constLabels,
	})

	m.malformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "malformed_records_total",
		Help:        "Historical rows dropped from ranking because a duration could not be parsed",
		ConstLabels: m.constLabels,
	})

	m.leaderboardLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_compute_seconds",
		Help:        "Time spent reading and ranking entries for a leaderboard",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"board"})

	m.leaderboardEmpty = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_empty_total",
		Help:        "Leaderboard reads that found no valid entries",
		ConstLabels: m.constLabels,
	}, []string{"board"})

	m.fleetSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "latest_fleet_size",
		Help:        "Number of valid entries on the latest race date",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP responses with status >= 400 by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "error_type"})

	m.dedupeEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dedupe_entries",
		Help:        "Submission IDs currently remembered for duplicate detection",
		ConstLabels: m.constLabels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause per cycle",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		ConstLabels: m.constLabels,
	})
}

// Manager-level recorders. They are no-ops when the manager is disabled.

// RecordSubmission counts a submission outcome.
func (m *Manager) RecordSubmission(outcome string) {
	if !m.enabled {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// RecordValidationFailure counts a rejected submission by reason.
func (m *Manager) RecordValidationFailure(reason string) {
	if !m.enabled {
		return
	}
	m.validationFailures.WithLabelValues(reason).Inc()
}

// RecordUnknownBoatType counts a submission with an unlisted boat type.
func (m *Manager) RecordUnknownBoatType(strict bool) {
	if !m.enabled {
		return
	}
	label := "false"
	if strict {
		label = "true"
	}
	m.unknownBoatTypes.WithLabelValues(label).Inc()
}

// RecordDuplicate counts an idempotent replay.
func (m *Manager) RecordDuplicate() {
	if !m.enabled {
		return
	}
	m.duplicates.Inc()
}

// ObserveStore records a store call and its failure, if any.
func (m *Manager) ObserveStore(op, backend string, seconds float64, failed bool) {
	if !m.enabled {
		return
	}
	m.storeLatency.WithLabelValues(op, backend).Observe(seconds)
	if failed {
		m.storeErrors.WithLabelValues(op, backend).Inc()
	}
}

// SetEntriesRead records the size of the last full read.
func (m *Manager) SetEntriesRead(n int) {
	if !m.enabled {
		return
	}
	m.entriesRead.Set(float64(n))
}

// AddMalformed counts dropped rows.
func (m *Manager) AddMalformed(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.malformed.Add(float64(n))
}

// ObserveLeaderboard records how long a board took and whether it was empty.
func (m *Manager) ObserveLeaderboard(board string, seconds float64, empty bool) {
	if !m.enabled {
		return
	}
	m.leaderboardLatency.WithLabelValues(board).Observe(seconds)
	if empty {
		m.leaderboardEmpty.WithLabelValues(board).Inc()
	}
}

// SetFleetSize records the latest race's fleet size.
func (m *Manager) SetFleetSize(n int) {
	if !m.enabled {
		return
	}
	m.fleetSize.Set(float64(n))
}

// ObserveHTTP records one HTTP request.
func (m *Manager) ObserveHTTP(endpoint, method, statusCode string, seconds float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, errorType string) {
	if !m.enabled {
		return
	}
	m.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// Package-level recorders backed by the global manager.

// RecordSubmission counts a submission outcome.
func RecordSubmission(outcome string) { globalManager.RecordSubmission(outcome) }

// RecordValidationFailure counts a rejected submission by reason.
func RecordValidationFailure(reason string) { globalManager.RecordValidationFailure(reason) }

// RecordUnknownBoatType counts a submission with an unlisted boat type.
func RecordUnknownBoatType(strict bool) { globalManager.RecordUnknownBoatType(strict) }

// RecordDuplicate counts an idempotent replay.
func RecordDuplicate() { globalManager.RecordDuplicate() }

// ObserveStore records a store call.
func ObserveStore(op, backend string, seconds float64, failed bool) {
	globalManager.ObserveStore(op, backend, seconds, failed)
}

// SetEntriesRead records the size of the last full read.
func SetEntriesRead(n int) { globalManager.SetEntriesRead(n) }

// AddMalformed counts dropped rows.
func AddMalformed(n int) { globalManager.AddMalformed(n) }

// ObserveLeaderboard records a leaderboard computation.
func ObserveLeaderboard(board string, seconds float64, empty bool) {
	globalManager.ObserveLeaderboard(board, seconds, empty)
}

// SetFleetSize records the latest race's fleet size.
func SetFleetSize(n int) { globalManager.SetFleetSize(n) }

// ObserveHTTP records one HTTP request.
func ObserveHTTP(endpoint, method, statusCode string, seconds float64) {
	globalManager.ObserveHTTP(endpoint, method, statusCode, seconds)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, errorType string) { globalManager.RecordHTTPError(endpoint, errorType) }

// UpdateDedupeEntries sets the number of remembered submission IDs.
func UpdateDedupeEntries(n int64) {
	globalManager.dedupeEntries.Set(float64(n))
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
