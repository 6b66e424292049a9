package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics of the service
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsActive  prometheus.Gauge

	// Report metrics
	ReportsTotal         *prometheus.CounterVec
	ReportDuration       prometheus.Histogram
	ReportChars          prometheus.Histogram
	ReportSources        prometheus.Histogram
	MetricsParseFailures prometheus.Counter
	ReportsInFlight      prometheus.Gauge

	// Chat and generator metrics
	ChatMessagesTotal *prometheus.CounterVec
	LlmsTxtGenerated  prometheus.Counter
}

// New creates a metrics instance registered on its own registry, together
// with the Go runtime and process collectors.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "seo_auditor"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 180},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_active",
				Help:      "Number of active HTTP requests",
			},
		),

		ReportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Total number of report generations",
			},
			[]string{"status"},
		),
		ReportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_duration_seconds",
				Help:      "Report generation duration in seconds",
				Buckets:   []float64{5, 10, 20, 30, 60, 90, 120, 180, 300},
			},
		),
		ReportChars: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_characters",
				Help:      "Size of generated reports in characters",
				Buckets:   prometheus.ExponentialBuckets(1000, 2, 8),
			},
		),
		ReportSources: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_sources",
				Help:      "Number of distinct grounding sources per report",
				Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
			},
		),
		MetricsParseFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_block_failures_total",
				Help:      "Reports whose metrics block was missing or invalid",
			},
		),
		ReportsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reports_in_flight",
				Help:      "Number of reports currently being generated",
			},
		),

		ChatMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_messages_total",
				Help:      "Total number of chat messages answered",
			},
			[]string{"status"},
		),
		LlmsTxtGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llms_txt_generated_total",
				Help:      "Total number of generated llms.txt documents",
			},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordReport records one finished report generation
func (m *Metrics) RecordReport(duration time.Duration, chars, sources int, hasMetrics bool) {
	m.ReportsTotal.WithLabelValues(StatusSuccess).Inc()
	m.ReportDuration.Observe(duration.Seconds())
	m.ReportChars.Observe(float64(chars))
	m.ReportSources.Observe(float64(sources))
	if !hasMetrics {
		m.MetricsParseFailures.Inc()
	}
}

// RecordReportFailure records a failed report generation
func (m *Metrics) RecordReportFailure(duration time.Duration) {
	m.ReportsTotal.WithLabelValues(StatusError).Inc()
	m.ReportDuration.Observe(duration.Seconds())
}

// RecordChat records one answered chat message
func (m *Metrics) RecordChat(failed bool) {
	status := StatusSuccess
	if failed {
		status = StatusError
	}
	m.ChatMessagesTotal.WithLabelValues(status).Inc()
}

// RecordLlmsTxt records one generated llms.txt document
func (m *Metrics) RecordLlmsTxt() {
	m.LlmsTxtGenerated.Inc()
}
