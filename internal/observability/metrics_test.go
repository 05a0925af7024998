package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, record config.MetricSetConfig) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := newMetrics(mp.Meter("test"), record)
	require.NoError(t, err)
	return m, reader
}

// sumOf adds up every int64 data point of the named counter whose attributes
// include all of want.
func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string, want ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if hasAll(dp.Attributes, want) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func hasAll(set attribute.Set, want []attribute.KeyValue) bool {
	for _, kv := range want {
		got, ok := set.Value(kv.Key)
		if !ok || got != kv.Value {
			return false
		}
	}
	return true
}

func TestObserveCall(t *testing.T) {
	m, reader := newTestMetrics(t, config.AllMetrics())
	ctx := context.Background()

	usage := &ai.TokenUsage{InputTokens: 100, OutputTokens: 40, TotalTokens: 140}
	m.ObserveCall(ctx, config.OpExtract, "gemini-2.5-pro", 1.5, usage, nil)
	m.ObserveCall(ctx, config.OpExtract, "gemini-2.5-pro", 0.2, nil, errors.New("boom"))

	op := attribute.String("operation", "extract")
	assert.Equal(t, int64(2), sumOf(t, reader, "cvwizard_model_calls_total", op))
	assert.Equal(t, int64(1), sumOf(t, reader, "cvwizard_model_call_errors_total", op, attribute.Bool("success", false)))
	assert.Equal(t, int64(100), sumOf(t, reader, "cvwizard_model_tokens_total", attribute.String("token_type", "input")))
	assert.Equal(t, int64(140), sumOf(t, reader, "cvwizard_model_tokens_total", attribute.String("token_type", "total")))
}

func TestObserveCallRespectsMetricSets(t *testing.T) {
	m, reader := newTestMetrics(t, config.MetricSetConfig{ModelTokens: true})

	m.ObserveCall(context.Background(), config.OpReview, "m", 1, &ai.TokenUsage{TotalTokens: 7}, nil)
	assert.Zero(t, sumOf(t, reader, "cvwizard_model_calls_total"))
	assert.Equal(t, int64(7), sumOf(t, reader, "cvwizard_model_tokens_total", attribute.String("token_type", "total")))
}

func TestRecordWizardEvents(t *testing.T) {
	m, reader := newTestMetrics(t, config.AllMetrics())
	ctx := context.Background()

	m.Record(ctx, wizard.EventCoverLetter, true, attribute.Bool("fallback", true))
	m.Record(ctx, wizard.EventCoverLetter, true, attribute.Bool("fallback", false))
	m.Record(ctx, wizard.EventJobParsed, true, attribute.Bool("degraded", true))
	m.Record(ctx, "not_an_event", true)

	assert.Equal(t, int64(2), sumOf(t, reader, "cvwizard_cover_letters_generated_total"))
	assert.Equal(t, int64(1), sumOf(t, reader, "cvwizard_cover_letters_generated_total", attribute.Bool("fallback", true)))
	assert.Equal(t, int64(1), sumOf(t, reader, "cvwizard_job_descriptions_parsed_total",
		attribute.Bool("degraded", true), attribute.Bool("success", true)))
}

func TestRecordWithoutOutcomes(t *testing.T) {
	m, reader := newTestMetrics(t, config.MetricSetConfig{WizardEvents: true})

	m.Record(context.Background(), wizard.EventReview, false)
	assert.Equal(t, int64(1), sumOf(t, reader, "cvwizard_reviews_total"))
	assert.Zero(t, sumOf(t, reader, "cvwizard_reviews_total", attribute.Bool("success", false)))
}

func TestRecordRateLimitHit(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		m, reader := newTestMetrics(t, config.AllMetrics())
		m.RecordRateLimitHit(context.Background(), attribute.String("endpoint", "/review"))
		assert.Equal(t, int64(1), sumOf(t, reader, "cvwizard_rate_limited_requests_total"))
	})

	t.Run("disabled", func(t *testing.T) {
		m, reader := newTestMetrics(t, config.MetricSetConfig{ModelCalls: true})
		m.RecordRateLimitHit(context.Background())
		assert.Zero(t, sumOf(t, reader, "cvwizard_rate_limited_requests_total"))
	})
}

func TestZeroMetricsAreNoops(t *testing.T) {
	var m Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.ObserveCall(ctx, config.OpEnhance, "m", 1, &ai.TokenUsage{}, nil)
		m.Record(ctx, wizard.EventCVEnhanced, true)
		m.RecordRateLimitHit(ctx)
	})
}

func TestDisabledManager(t *testing.T) {
	m, err := NewManager(Settings{ServiceName: "cvwizard"}, nil)
	require.NoError(t, err)

	assert.Nil(t, m.MetricsHandler())
	assert.Equal(t, "/metrics", m.MetricsPath())
	assert.NotNil(t, m.GetMetrics())
	assert.NotNil(t, m.Tracer("x"))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestManagerServesPrometheus(t *testing.T) {
	m, err := NewManager(Settings{
		Enabled:        true,
		ServiceName:    "cvwizard-test",
		ServiceVersion: "test",
		MetricsEnabled: true,
		MetricInterval: time.Minute,
		Prometheus:     config.PrometheusConfig{Enabled: true, Endpoint: "/internal/metrics"},
		Record:         config.AllMetrics(),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	m.GetMetrics().Record(context.Background(), wizard.EventReview, true)

	require.NotNil(t, m.MetricsHandler())
	assert.Equal(t, "/internal/metrics", m.MetricsPath())

	rec := httptest.NewRecorder()
	m.MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/internal/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "cvwizard_reviews_total")
}

func TestSettingsFrom(t *testing.T) {
	cfg := config.ObservabilityConfig{
		Enabled: true,
		Tracing: config.TracingConfig{Enabled: true, SampleRate: 0.5, Exporter: config.ExporterConsole},
		Metrics: config.MetricsConfig{Enabled: true, Prometheus: config.PrometheusConfig{Enabled: true}},
		OTLP:    config.OTLPConfig{Endpoint: "http://collector:4318"},
	}

	got := SettingsFrom(cfg, "1.2.3")
	assert.Equal(t, "cvwizard", got.ServiceName)
	assert.Equal(t, "1.2.3", got.ServiceVersion)
	assert.Equal(t, 0.5, got.SampleRate)
	assert.Equal(t, config.ExporterConsole, got.TraceExporter)
	assert.Equal(t, 15*time.Second, got.MetricInterval)
	assert.True(t, got.Prometheus.Enabled)

	cfg.Tracing.Enabled = false
	cfg.Metrics.Enabled = false
	got = SettingsFrom(cfg, "1.2.3")
	assert.Zero(t, got.SampleRate)
	assert.False(t, got.Prometheus.Enabled)
}
