// Package metrics provides Prometheus metrics for the predictor service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Business metrics
	predictionsSubmitted prometheus.Counter
	resultsRecorded      prometheus.Counter
	leaderboardComputes  prometheus.Counter
	leaderboardLatency   prometheus.Histogram
	scoringInvocations   prometheus.Counter
	predictionsTotal     prometheus.Gauge
	resultsAvailable     prometheus.Gauge
	submissionsRejected  *prometheus.CounterVec
	leaderboardErrors    prometheus.Counter

	// Repository metrics
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "predictor",
		subsystem:        "match",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	m.predictionsSubmitted = m.counter("predictions_submitted_total", "Total number of accepted prediction submissions (creates and replacements)")
	m.resultsRecorded = m.counter("results_recorded_total", "Total number of administrator result writes")
	m.leaderboardComputes = m.counter("leaderboard_computations_total", "Total number of full leaderboard recomputations")
	m.leaderboardLatency = m.histogram("leaderboard_compute_latency_milliseconds", "Leaderboard recomputation latency in milliseconds, including repository reads", m.histogramBuckets)
	m.scoringInvocations = m.counter("scoring_invocations_total", "Total number of prediction scorings performed")
	m.predictionsTotal = m.gauge("predictions_total", "Current number of stored predictions")
	m.resultsAvailable = m.gauge("results_available", "1 when an actual result has been recorded, 0 otherwise")
	m.submissionsRejected = m.counterVec("submissions_rejected_total", "Prediction submissions rejected before storage", "reason")
	m.leaderboardErrors = m.counter("leaderboard_errors_total", "Leaderboard computations that failed on a repository read")

	m.repositoryLatency = m.histogramVec("repository_operation_latency_milliseconds", "Repository operation latency in milliseconds", m.histogramBuckets, "backend", "op")
	m.repositoryErrors = m.counterVec("repository_errors_total", "Repository operations that returned an error", "backend", "op")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")

	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordPredictionSubmitted increments the accepted submissions counter.
func RecordPredictionSubmitted() {
	globalManager.predictionsSubmitted.Inc()
}

// RecordSubmissionRejected counts a rejected submission by reason.
func RecordSubmissionRejected(reason string) {
	globalManager.submissionsRejected.WithLabelValues(reason).Inc()
}

// RecordResultRecorded increments the result writes counter.
func RecordResultRecorded() {
	globalManager.resultsRecorded.Inc()
}

// RecordLeaderboardComputation records one recomputation and its latency.
func RecordLeaderboardComputation(latencyMs float64) {
	globalManager.leaderboardComputes.Inc()
	globalManager.leaderboardLatency.Observe(latencyMs)
}

// RecordLeaderboardError increments the leaderboard errors counter.
func RecordLeaderboardError() {
	globalManager.leaderboardErrors.Inc()
}

// RecordScoringInvocations adds n scorings to the counter.
func RecordScoringInvocations(n int) {
	globalManager.scoringInvocations.Add(float64(n))
}

// UpdatePredictionsTotal sets the stored predictions gauge.
func UpdatePredictionsTotal(count int) {
	globalManager.predictionsTotal.Set(float64(count))
}

// UpdateResultsAvailable flips the result presence gauge.
func UpdateResultsAvailable(available bool) {
	v := 0.0
	if available {
		v = 1
	}
	globalManager.resultsAvailable.Set(v)
}

// RecordRepositoryOperation observes a repository call; failed calls are also counted as errors.
func RecordRepositoryOperation(backend, op string, latencyMs float64, err error) {
	globalManager.repositoryLatency.WithLabelValues(backend, op).Observe(latencyMs)
	if err != nil {
		globalManager.repositoryErrors.WithLabelValues(backend, op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
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
