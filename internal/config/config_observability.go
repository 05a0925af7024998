package config

import (
	"fmt"
	"slices"
	"time"
)

// Exporter names accepted by tracing.exporter and metrics.exporters.
const (
	ExporterNone    = "none"
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
)

// ObservabilityConfig configures OpenTelemetry for the HTTP server.
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
	// Exporter is none, console or otlp.
	Exporter    string `mapstructure:"exporter"`
	PrettyPrint bool   `mapstructure:"prettyPrint"`
}

type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	// Exporters lists push exporters (console, otlp). Prometheus is pulled
	// and configured on its own.
	Exporters  []string         `mapstructure:"exporters"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Record     MetricSetConfig  `mapstructure:"record"`
}

// MetricSetConfig switches individual instrument groups on and off.
type MetricSetConfig struct {
	ModelCalls   bool `mapstructure:"modelCalls"`
	ModelLatency bool `mapstructure:"modelLatency"`
	ModelTokens  bool `mapstructure:"modelTokens"`
	WizardEvents bool `mapstructure:"wizardEvents"`
	// Outcomes adds a success attribute to wizard events.
	Outcomes   bool `mapstructure:"outcomes"`
	RateLimits bool `mapstructure:"rateLimits"`
}

// AllMetrics records every instrument group.
func AllMetrics() MetricSetConfig {
	return MetricSetConfig{
		ModelCalls:   true,
		ModelLatency: true,
		ModelTokens:  true,
		WizardEvents: true,
		Outcomes:     true,
		RateLimits:   true,
	}
}

// PrometheusConfig exposes the scrape handler on the API server and, when
// Port is set, on a dedicated listener too.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig is shared by the OTLP trace and metric exporters.
type OTLPConfig struct {
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig bounds the model probe behind /health.
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func (o ObservabilityConfig) validate() error {
	if !o.Enabled {
		return nil
	}
	if o.Tracing.SampleRate < 0 || o.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be in [0, 1]")
	}
	switch o.Tracing.Exporter {
	case "", ExporterNone, ExporterConsole, ExporterOTLP:
	default:
		return fmt.Errorf("unknown trace exporter %q", o.Tracing.Exporter)
	}
	for _, e := range o.Metrics.Exporters {
		if !slices.Contains([]string{ExporterConsole, ExporterOTLP}, e) {
			return fmt.Errorf("unknown metric exporter %q", e)
		}
	}
	if o.usesOTLP() && o.OTLP.Endpoint == "" {
		return fmt.Errorf("otlp endpoint is required when an otlp exporter is selected")
	}
	return nil
}

func (o ObservabilityConfig) usesOTLP() bool {
	return (o.Tracing.Enabled && o.Tracing.Exporter == ExporterOTLP) ||
		(o.Metrics.Enabled && slices.Contains(o.Metrics.Exporters, ExporterOTLP))
}
