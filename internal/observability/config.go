package observability

import (
	"net/http"
	"time"

	"cvwizard/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Settings is the resolved observability setup of one server process.
type Settings struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	ServiceInstance string

	// SampleRate is zero when tracing is off.
	SampleRate    float64
	TraceExporter string
	PrettyPrint   bool

	MetricsEnabled  bool
	MetricExporters []string
	MetricInterval  time.Duration
	Prometheus      config.PrometheusConfig
	Record          config.MetricSetConfig

	OTLP config.OTLPConfig
}

// SettingsFrom resolves cfg for a build of the given version.
func SettingsFrom(cfg config.ObservabilityConfig, version string) Settings {
	s := Settings{
		Enabled:         cfg.Enabled,
		ServiceName:     cfg.ServiceName,
		ServiceVersion:  cfg.ServiceVersion,
		ServiceInstance: cfg.ServiceInstance,
		TraceExporter:   cfg.Tracing.Exporter,
		PrettyPrint:     cfg.Tracing.PrettyPrint,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricExporters: cfg.Metrics.Exporters,
		MetricInterval:  cfg.Metrics.Interval,
		Prometheus:      cfg.Metrics.Prometheus,
		Record:          cfg.Metrics.Record,
		OTLP:            cfg.OTLP,
	}
	if s.ServiceName == "" {
		s.ServiceName = "cvwizard"
	}
	if s.ServiceVersion == "" {
		s.ServiceVersion = version
	}
	if cfg.Tracing.Enabled {
		s.SampleRate = cfg.Tracing.SampleRate
	}
	if s.MetricInterval <= 0 {
		s.MetricInterval = 15 * time.Second
	}
	if !s.MetricsEnabled {
		s.Prometheus.Enabled = false
	}
	return s
}

// ObservabilityMiddleware tags the active request span with the request id
// and the route. It expects to run inside HTTPMiddleware, which owns the
// span.
func ObservabilityMiddleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.settings.Enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace.SpanFromContext(r.Context()).SetAttributes(
				attribute.String("http.request_id", w.Header().Get(RequestIDHeader)),
				attribute.String("http.route", r.URL.Path),
				attribute.String("user_agent.original", r.UserAgent()),
			)
			next.ServeHTTP(w, r)
		})
	}
}
