// Package metrics provides Prometheus metrics for the talent portal service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the portal.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Business metrics
	kudosAwarded       prometheus.Counter
	feedbackRegistered *prometheus.CounterVec
	teamMembers        prometheus.Gauge

	// Store metrics
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	storeSeeded     *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Activity pipeline metrics
	activityQueueSize      prometheus.Gauge
	activityQueueCapacity  prometheus.Gauge
	activityEnqueued       prometheus.Counter
	activityDropped        prometheus.Counter
	activityProcessed      *prometheus.CounterVec
	activityWorkerCount    prometheus.Gauge
	activityProcessLatency prometheus.Histogram

	// Idempotency metrics
	idempotentReplays prometheus.Counter
	idempotencyKeys   prometheus.Gauge

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talent",
		subsystem:        "portal",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.kudosAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("kudos_awarded_total"),
		Help:        "Total number of kudos awarded to team members",
		ConstLabels: constLabels,
	})

	m.feedbackRegistered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("feedback_registered_total"),
		Help:        "Total number of client feedback records registered, by sentiment",
		ConstLabels: constLabels,
	}, []string{"sentiment"})

	m.teamMembers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("team_members"),
		Help:        "Number of team members returned by the last team read",
		ConstLabels: constLabels,
	})

	m.storeOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_operations_total"),
		Help:        "Data-source operations by backend, operation and outcome",
		ConstLabels: constLabels,
	}, []string{"backend", "operation", "outcome"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_latency_milliseconds"),
		Help:        "Data-source operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"backend", "operation"})

	m.storeSeeded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_seeded_total"),
		Help:        "Number of times a backend was seeded from fixtures",
		ConstLabels: constLabels,
	}, []string{"backend"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.activityQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_queue_size"),
		Help:        "Current number of queued activity events",
		ConstLabels: constLabels,
	})

	m.activityQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_queue_capacity"),
		Help:        "Configured capacity of the activity queue",
		ConstLabels: constLabels,
	})

	m.activityEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_enqueued_total"),
		Help:        "Activity events accepted by the queue",
		ConstLabels: constLabels,
	})

	m.activityDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_dropped_total"),
		Help:        "Activity events dropped because the queue was full or closed",
		ConstLabels: constLabels,
	})

	m.activityProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_processed_total"),
		Help:        "Activity events recorded into the feed, by kind",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.activityWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_workers"),
		Help:        "Number of running activity workers",
		ConstLabels: constLabels,
	})

	m.activityProcessLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("activity_process_latency_milliseconds"),
		Help:        "Time from activity publication to feed insertion in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.idempotentReplays = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("idempotent_replays_total"),
		Help:        "Mutating requests answered from the idempotency cache",
		ConstLabels: constLabels,
	})

	m.idempotencyKeys = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("idempotency_keys"),
		Help:        "Number of idempotency keys currently retained",
		ConstLabels: constLabels,
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_component_total"),
		Help:        "Errors by component and type",
		ConstLabels: constLabels,
	}, []string{"component", "error_type"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "HTTP errors by endpoint, method and type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_bytes"),
		Help:        "Allocated heap memory in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutines"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_milliseconds"),
		Help:        "Average GC pause in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		ConstLabels: constLabels,
	})
}

// RecordKudosAwarded increments the kudos counter.
func RecordKudosAwarded() {
	if !globalManager.enabled {
		return
	}
	globalManager.kudosAwarded.Inc()
}

// RecordFeedbackRegistered increments the feedback counter for a sentiment.
func RecordFeedbackRegistered(sentiment string) {
	if !globalManager.enabled {
		return
	}
	globalManager.feedbackRegistered.WithLabelValues(sentiment).Inc()
}

// UpdateTeamMembers sets the team size gauge.
func UpdateTeamMembers(count int) {
	globalManager.teamMembers.Set(float64(count))
}

// RecordStoreOperation records a data-source call and its latency.
func RecordStoreOperation(backend, operation, outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeOperations.WithLabelValues(backend, operation, outcome).Inc()
	globalManager.storeLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordStoreSeeded counts a fixture seed of a backend.
func RecordStoreSeeded(backend string) {
	globalManager.storeSeeded.WithLabelValues(backend).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateActivityQueueSize sets the current activity queue length.
func UpdateActivityQueueSize(size int) {
	globalManager.activityQueueSize.Set(float64(size))
}

// UpdateActivityQueueCapacity sets the activity queue capacity.
func UpdateActivityQueueCapacity(capacity int) {
	globalManager.activityQueueCapacity.Set(float64(capacity))
}

// RecordActivityEnqueued counts an accepted activity event.
func RecordActivityEnqueued() {
	globalManager.activityEnqueued.Inc()
}

// RecordActivityDropped counts a dropped activity event.
func RecordActivityDropped() {
	globalManager.activityDropped.Inc()
}

// RecordActivityProcessed counts an activity event recorded into the feed.
func RecordActivityProcessed(kind string, latencyMs float64) {
	globalManager.activityProcessed.WithLabelValues(kind).Inc()
	globalManager.activityProcessLatency.Observe(latencyMs)
}

// UpdateActivityWorkerCount sets the number of running activity workers.
func UpdateActivityWorkerCount(count int) {
	globalManager.activityWorkerCount.Set(float64(count))
}

// RecordIdempotentReplay counts a request served from the idempotency cache.
func RecordIdempotentReplay() {
	globalManager.idempotentReplays.Inc()
}

// UpdateIdempotencyKeys sets the number of retained idempotency keys.
func UpdateIdempotencyKeys(count int64) {
	globalManager.idempotencyKeys.Set(float64(count))
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
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
