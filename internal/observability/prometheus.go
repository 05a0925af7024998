package observability

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"cvwizard/internal/config"
	"cvwizard/internal/errors"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const defaultMetricsPath = "/metrics"

// newPrometheusReader binds an exporter to a private registry, so two
// managers in one process (tests, mostly) never collide on the default
// registry. The registry also carries the Go runtime collectors.
func newPrometheusReader() (sdkmetric.Reader, http.Handler, error) {
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	return exporter, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}), nil
}

// servePrometheus serves handler on the dedicated port, if one is set. The
// returned func stops the listener; it is nil when nothing was started.
func servePrometheus(handler http.Handler, cfg config.PrometheusConfig, logger *errors.Logger) (func(context.Context) error, error) {
	if cfg.Port == "" {
		return nil, nil
	}

	path := cfg.Endpoint
	if path == "" {
		path = defaultMetricsPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	addr := ":" + cfg.Port
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	logger.Info("Serving Prometheus metrics", "addr", addr, "path", path)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.LogError(err, "Prometheus listener stopped")
		}
	}()
	return srv.Shutdown, nil
}
