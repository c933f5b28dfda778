package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the MolViz application metrics.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	VisualizeTotal    CounterVec
	EmbeddingDuration HistogramVec
	RenderDuration    HistogramVec

	LookupRequestsTotal CounterVec
	LookupDuration      HistogramVec

	EventsPublishedTotal CounterVec
	EventsConsumedTotal  CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultEmbedDurationBuckets  = []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultLookupDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),
		HTTPActiveRequests:  collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method"),

		VisualizeTotal:    collector.RegisterCounter("visualize_total", "Visualize requests by result", "result"),
		EmbeddingDuration: collector.RegisterHistogram("embedding_duration_seconds", "3D coordinate generation duration", DefaultEmbedDurationBuckets),
		RenderDuration:    collector.RegisterHistogram("render_duration_seconds", "2D depiction duration", DefaultEmbedDurationBuckets),

		LookupRequestsTotal: collector.RegisterCounter("lookup_requests_total", "External lookups by service and outcome", "service", "outcome"),
		LookupDuration:      collector.RegisterHistogram("lookup_duration_seconds", "External lookup duration", DefaultLookupDurationBuckets, "service"),

		EventsPublishedTotal: collector.RegisterCounter("events_published_total", "Domain events handed to the publisher", "type", "status"),
		EventsConsumedTotal:  collector.RegisterCounter("events_consumed_total", "Domain events processed by the worker", "type", "status"),
	}
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordVisualize counts a visualize request; result is "ok", "invalid" or
// "error".
func RecordVisualize(m *AppMetrics, result string) {
	m.VisualizeTotal.WithLabelValues(result).Inc()
}

// LookupObserver returns a callback for an external lookup client.
func LookupObserver(m *AppMetrics, service string) func(outcome string, elapsed time.Duration) {
	return func(outcome string, elapsed time.Duration) {
		m.LookupRequestsTotal.WithLabelValues(service, outcome).Inc()
		m.LookupDuration.WithLabelValues(service).Observe(elapsed.Seconds())
	}
}

// RecordEvent counts a publish attempt.
func RecordEvent(m *AppMetrics, eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

// RecordConsumed counts a processed event; status is "recorded",
// "duplicate" or "failed".
func RecordConsumed(m *AppMetrics, eventType, status string) {
	m.EventsConsumedTotal.WithLabelValues(eventType, status).Inc()
}

//Personal.AI order the ending
