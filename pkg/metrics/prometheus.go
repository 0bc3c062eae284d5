// Package metrics provides Prometheus metrics for the feedback dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ingestion
	ingestions        *prometheus.CounterVec
	ingestionLatency  prometheus.Histogram
	ingestionFailures *prometheus.CounterVec
	ingestedRecords   prometheus.Gauge

	// Snapshot store
	recordsTotal       prometheus.Gauge
	snapshotGeneration prometheus.Gauge
	staleCommits       prometheus.Counter
	snapshotPublish    prometheus.Histogram

	// Query path
	filterLatency    prometheus.Histogram
	filterResultSize prometheus.Histogram
	refreshThrottled prometheus.Counter

	// Export
	exports      prometheus.Counter
	exportRows   prometheus.Histogram
	exportErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

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

// NewManager creates a new metrics manager. Without WithPrometheusRegistry
// the metrics land on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "feedback",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
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

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 8)

	m.ingestions = m.counterVec("ingestions_total", "Ingestion attempts by outcome", "outcome")
	m.ingestionLatency = m.histogram("ingestion_latency_milliseconds", "Time to fetch and decode the response feed", m.histogramBuckets)
	m.ingestionFailures = m.counterVec("ingestion_failures_total", "Ingestion failures by kind", "kind")
	m.ingestedRecords = m.gauge("ingested_records", "Records returned by the last successful ingestion")

	m.recordsTotal = m.gauge("records_total", "Records in the current snapshot")
	m.snapshotGeneration = m.gauge("snapshot_generation", "Generation of the current snapshot")
	m.staleCommits = m.counter("stale_commits_total", "Ingestion results discarded because a newer one had landed")
	m.snapshotPublish = m.histogram("snapshot_publish_milliseconds", "Time to index and publish a snapshot", m.histogramBuckets)

	m.filterLatency = m.histogram("filter_latency_milliseconds", "Time to apply filter criteria to the snapshot", m.histogramBuckets)
	m.filterResultSize = m.histogram("filter_result_size", "Records matched per filter request", sizeBuckets)
	m.refreshThrottled = m.counter("refresh_throttled_total", "Manual refresh requests rejected by the rate limit")

	m.exports = m.counter("exports_total", "Spreadsheet exports produced")
	m.exportRows = m.histogram("export_rows", "Rows per spreadsheet export", sizeBuckets)
	m.exportErrors = m.counter("export_errors_total", "Spreadsheet exports that failed to encode")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by HTTP endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of requests that ended in an error",
		m.histogramBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordIngestion counts an ingestion attempt and its latency.
func RecordIngestion(outcome string, latencyMs float64) {
	globalManager.ingestions.WithLabelValues(outcome).Inc()
	globalManager.ingestionLatency.Observe(latencyMs)
}

// RecordIngestionFailure counts a failed ingestion by kind.
func RecordIngestionFailure(kind string) {
	globalManager.ingestionFailures.WithLabelValues(kind).Inc()
}

// UpdateIngestedRecords sets the size of the last successful ingestion.
func UpdateIngestedRecords(count int) {
	globalManager.ingestedRecords.Set(float64(count))
}

// UpdateRecordsTotal sets the current snapshot size.
func UpdateRecordsTotal(count int) {
	globalManager.recordsTotal.Set(float64(count))
}

// UpdateSnapshotGeneration sets the current snapshot generation.
func UpdateSnapshotGeneration(gen uint64) {
	globalManager.snapshotGeneration.Set(float64(gen))
}

// RecordStaleCommit counts a discarded ingestion result.
func RecordStaleCommit() {
	globalManager.staleCommits.Inc()
}

// RecordSnapshotPublishDuration records snapshot publish time in milliseconds.
func RecordSnapshotPublishDuration(ms float64) {
	globalManager.snapshotPublish.Observe(ms)
}

// RecordFilter records filter latency and result size.
func RecordFilter(latencyMs float64, matched int) {
	globalManager.filterLatency.Observe(latencyMs)
	globalManager.filterResultSize.Observe(float64(matched))
}

// RecordRefreshThrottled counts a rate-limited manual refresh.
func RecordRefreshThrottled() {
	globalManager.refreshThrottled.Inc()
}

// RecordExport counts a produced export and its row count.
func RecordExport(rows int) {
	globalManager.exports.Inc()
	globalManager.exportRows.Observe(float64(rows))
}

// RecordExportError counts a failed export.
func RecordExportError() {
	globalManager.exportErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records error latency.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
