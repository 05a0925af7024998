// Package observability wires OpenTelemetry tracing and metrics for the HTTP
// server and adapts them to the gateway and wizard observer hooks.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"cvwizard/internal/config"
	"cvwizard/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Manager owns the tracer and meter providers of a server process. A
// disabled Manager is still usable: its tracer is a no-op and its metrics
// record nothing.
type Manager struct {
	settings  Settings
	logger    *errors.Logger
	resource  *resource.Resource
	tracers   *sdktrace.TracerProvider
	meters    *sdkmetric.MeterProvider
	metrics   *Metrics
	scrape    http.Handler
	shutdowns []func(context.Context) error
}

// NewManager starts the exporters s asks for and installs the providers as
// the otel globals.
func NewManager(s Settings, logger *errors.Logger) (*Manager, error) {
	if logger == nil {
		logger = errors.Discard()
	}
	m := &Manager{settings: s, logger: logger}
	if !s.Enabled {
		return m, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.ServiceName),
		semconv.ServiceVersion(s.ServiceVersion),
		attribute.String("service.instance.id", s.ServiceInstance),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build otel resource: %w", err)
	}
	m.resource = res

	if err := m.startTracing(); err != nil {
		m.abort()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if s.MetricsEnabled {
		if err := m.startMetrics(); err != nil {
			m.abort()
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Manager) abort() {
	if err := m.Shutdown(context.Background()); err != nil {
		m.logger.LogError(err, "Failed to stop partially started observability")
	}
}

func (m *Manager) startTracing() error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(m.resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(m.settings.SampleRate))),
	}

	exporter, err := m.spanExporter()
	if err != nil {
		return err
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	m.tracers = tp
	m.shutdowns = append(m.shutdowns, tp.Shutdown)
	return nil
}

// spanExporter returns nil when spans are sampled but not exported.
func (m *Manager) spanExporter() (sdktrace.SpanExporter, error) {
	switch m.settings.TraceExporter {
	case config.ExporterConsole:
		var opts []stdouttrace.Option
		if m.settings.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	case config.ExporterOTLP:
		otlp := m.settings.OTLP
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(otlp.Endpoint)}
		if otlp.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(otlp.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(otlp.Headers))
		}
		return otlptracehttp.New(context.Background(), opts...)
	default:
		return nil, nil
	}
}

func (m *Manager) startMetrics() error {
	opts := []sdkmetric.Option{sdkmetric.WithResource(m.resource)}

	for _, name := range m.settings.MetricExporters {
		exporter, err := m.metricExporter(name)
		if err != nil {
			return fmt.Errorf("failed to create %s metric exporter: %w", name, err)
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.settings.MetricInterval))))
	}

	if m.settings.Prometheus.Enabled {
		reader, handler, err := newPrometheusReader()
		if err != nil {
			return err
		}
		opts = append(opts, sdkmetric.WithReader(reader))
		m.scrape = handler
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meters = mp
	m.shutdowns = append(m.shutdowns, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(m.settings.ServiceName), m.settings.Record)
	if err != nil {
		return err
	}
	m.metrics = metrics

	if m.scrape != nil {
		stop, err := servePrometheus(m.scrape, m.settings.Prometheus, m.logger)
		if err != nil {
			return err
		}
		if stop != nil {
			m.shutdowns = append(m.shutdowns, stop)
		}
	}
	return nil
}

func (m *Manager) metricExporter(name string) (sdkmetric.Exporter, error) {
	switch name {
	case config.ExporterConsole:
		return stdoutmetric.New()
	case config.ExporterOTLP:
		otlp := m.settings.OTLP
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(otlp.Endpoint)}
		if otlp.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(otlp.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(otlp.Headers))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unknown metric exporter %q", name)
	}
}

// MetricsHandler is the Prometheus scrape handler, or nil when Prometheus is
// off.
func (m *Manager) MetricsHandler() http.Handler { return m.scrape }

// MetricsPath is where the API server mounts MetricsHandler.
func (m *Manager) MetricsPath() string {
	if m.settings.Prometheus.Endpoint == "" {
		return defaultMetricsPath
	}
	return m.settings.Prometheus.Endpoint
}

// GetMetrics never returns nil.
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware opens a server span and records HTTP metrics per request.
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.settings.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	opts := []otelhttp.Option{otelhttp.WithTracerProvider(m.tracers)}
	if m.meters != nil {
		opts = append(opts, otelhttp.WithMeterProvider(m.meters))
	}
	return otelhttp.NewMiddleware(m.settings.ServiceName, opts...)
}

func (m *Manager) Tracer(name string) trace.Tracer {
	if m.tracers == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return m.tracers.Tracer(name)
}

// Shutdown flushes and stops everything NewManager started, newest first.
func (m *Manager) Shutdown(ctx context.Context) error {
	var firstErr error
	for i := len(m.shutdowns) - 1; i >= 0; i-- {
		if err := m.shutdowns[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.shutdowns = nil
	return firstErr
}
