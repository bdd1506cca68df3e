// Package metrics provides Prometheus metrics for the summitgap dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for upstream fetches.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Upstream fetches
	upstreamFetches      *prometheus.CounterVec
	upstreamFetchLatency *prometheus.HistogramVec
	upstreamRecords      *prometheus.GaugeVec

	// Reconciliation
	validSummits     prometheus.Gauge
	missingSummits   *prometheus.GaugeVec
	completedSummits *prometheus.GaugeVec
	reconciliations  *prometheus.CounterVec

	// Memo layer
	memoHits    prometheus.Counter
	memoMisses  prometheus.Counter
	memoEntries prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
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
		namespace:        "summitgap",
		subsystem:        "dashboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.upstreamFetches = auto.NewCounterVec(
		m.counterOpts("upstream_fetches_total", "Upstream GET requests by endpoint and outcome"),
		[]string{"endpoint", "outcome"},
	)
	m.upstreamFetchLatency = auto.NewHistogramVec(
		m.histogramOpts("upstream_fetch_latency_milliseconds", "Upstream GET latency in milliseconds", m.histogramBuckets),
		[]string{"endpoint"},
	)
	m.upstreamRecords = auto.NewGaugeVec(
		m.gaugeOpts("upstream_records", "Records decoded from the last successful fetch"),
		[]string{"endpoint"},
	)

	m.validSummits = auto.NewGauge(m.gaugeOpts("valid_summits", "Summits whose validity window covers now"))
	m.missingSummits = auto.NewGaugeVec(
		m.gaugeOpts("missing_summits", "Valid summits not yet completed, by view"),
		[]string{"view"},
	)
	m.completedSummits = auto.NewGaugeVec(
		m.gaugeOpts("completed_summits", "Valid summits already completed, by view"),
		[]string{"view"},
	)
	m.reconciliations = auto.NewCounterVec(
		m.counterOpts("reconciliations_total", "Reconciliation passes, by view"),
		[]string{"view"},
	)

	m.memoHits = auto.NewCounter(m.counterOpts("memo_hits_total", "Memoized upstream results served from cache"))
	m.memoMisses = auto.NewCounter(m.counterOpts("memo_misses_total", "Memo lookups that had to load"))
	m.memoEntries = auto.NewGauge(m.gaugeOpts("memo_entries", "Entries currently held by the memo layer"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordUpstreamFetch records one upstream GET with its outcome and latency.
func RecordUpstreamFetch(endpoint, outcome string, latencyMs float64) {
	globalManager.upstreamFetches.WithLabelValues(endpoint, outcome).Inc()
	globalManager.upstreamFetchLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// UpdateUpstreamRecords sets the record count of the last successful fetch.
func UpdateUpstreamRecords(endpoint string, count int) {
	globalManager.upstreamRecords.WithLabelValues(endpoint).Set(float64(count))
}

// UpdateValidSummits sets the size of the filtered catalog.
func UpdateValidSummits(count int) {
	globalManager.validSummits.Set(float64(count))
}

// RecordReconciliation records one reconciliation pass for a view.
func RecordReconciliation(view string, missing, completed int) {
	globalManager.reconciliations.WithLabelValues(view).Inc()
	globalManager.missingSummits.WithLabelValues(view).Set(float64(missing))
	globalManager.completedSummits.WithLabelValues(view).Set(float64(completed))
}

// RecordMemoHit increments the memo hit counter.
func RecordMemoHit() {
	globalManager.memoHits.Inc()
}

// RecordMemoMiss increments the memo miss counter.
func RecordMemoMiss() {
	globalManager.memoMisses.Inc()
}

// UpdateMemoEntries sets the number of memoized entries.
func UpdateMemoEntries(count int) {
	globalManager.memoEntries.Set(float64(count))
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
