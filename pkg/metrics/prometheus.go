// Package metrics provides Prometheus metrics for the encore performance engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Session lifecycle
	sessionsCreated   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionsAbandoned prometheus.Counter
	activeSessions    prometheus.Gauge

	// Performance simulation
	phaseAdvances       prometheus.Counter
	eventsGenerated     *prometheus.CounterVec
	eventsResolved      prometheus.Counter
	eventsDiscarded     prometheus.Counter
	performanceScore    prometheus.Histogram
	crowdEnergyAverage  prometheus.Histogram
	resultsDuplicate    prometheus.Counter
	snapshotFetchErrors prometheus.Counter

	// Persistence pipeline
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueueRate prometheus.Counter
	queueDequeueRate prometheus.Counter
	queueDropped     prometheus.Counter
	workerCount      prometheus.Gauge
	persistErrors    prometheus.Counter
	resultsPersisted prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "encore",
		subsystem:        "performance",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Total number of performance sessions created",
	})

	m.sessionsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_completed_total",
		Help:      "Total number of performance sessions completed",
	})

	m.sessionsAbandoned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_abandoned_total",
		Help:      "Total number of sessions released without completion",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of live performance sessions",
	})

	m.phaseAdvances = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "phase_advances_total",
		Help:      "Total number of phase advances across all sessions",
	})

	m.eventsGenerated = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_generated_total",
			Help:      "Total number of performance events generated by type",
		},
		[]string{"event_type"},
	)

	m.eventsResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_resolved_total",
		Help:      "Total number of performance events resolved by players",
	})

	m.eventsDiscarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_discarded_total",
		Help:      "Total number of pending events explicitly discarded",
	})

	m.performanceScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "performance_score",
		Help:      "Distribution of final performance scores",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	m.crowdEnergyAverage = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "crowd_energy_average",
		Help:      "Distribution of average crowd energy at completion",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	m.resultsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_duplicate_total",
		Help:      "Total number of duplicate results dropped by the persistence pipeline",
	})

	m.snapshotFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_fetch_errors_total",
		Help:      "Total number of failed band snapshot fetches",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_queue_size",
		Help:      "Current size of the result persistence queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_queue_capacity",
		Help:      "Configured capacity of the result persistence queue",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_queue_enqueue_total",
		Help:      "Total number of results enqueued for persistence",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_queue_dequeue_total",
		Help:      "Total number of results dequeued by persist workers",
	})

	m.queueDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_queue_dropped_total",
		Help:      "Total number of results rejected due to backpressure",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_worker_count",
		Help:      "Current number of persist workers",
	})

	m.persistErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_errors_total",
		Help:      "Total number of repository write errors",
	})

	m.resultsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_persisted_total",
		Help:      "Total number of performance results written to the repository",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers operating on the global manager.

func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

func RecordSessionCompleted() {
	globalManager.sessionsCompleted.Inc()
}

func RecordSessionAbandoned() {
	globalManager.sessionsAbandoned.Inc()
}

func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

func RecordPhaseAdvance() {
	globalManager.phaseAdvances.Inc()
}

func RecordEventGenerated(eventType string) {
	globalManager.eventsGenerated.WithLabelValues(eventType).Inc()
}

func RecordEventResolved() {
	globalManager.eventsResolved.Inc()
}

func RecordEventDiscarded() {
	globalManager.eventsDiscarded.Inc()
}

func RecordPerformanceScore(score float64) {
	globalManager.performanceScore.Observe(score)
}

func RecordCrowdEnergyAverage(avg float64) {
	globalManager.crowdEnergyAverage.Observe(avg)
}

func RecordResultDuplicate() {
	globalManager.resultsDuplicate.Inc()
}

func RecordSnapshotFetchError() {
	globalManager.snapshotFetchErrors.Inc()
}

func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

func RecordQueueDropped() {
	globalManager.queueDropped.Inc()
}

func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

func RecordPersistError() {
	globalManager.persistErrors.Inc()
}

func RecordResultPersisted() {
	globalManager.resultsPersisted.Inc()
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry exposes the custom registry for the /metricsz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
