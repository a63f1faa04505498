// Package telemetry wires the search statistics and encoder cache
// metrics into Prometheus and OpenTelemetry.
//
// Search statistics are exported by a prometheus.Collector reading a
// markov.SearchMonitor. Cache statistics are OpenTelemetry observable
// instruments; with the "prometheus" exporter they are bridged into the
// same registry, so a single /metrics endpoint serves both.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ErrUnknownExporter is returned for an unsupported MetricExporter value.
var ErrUnknownExporter = errors.New("unknown metric exporter")

// Config controls telemetry behavior.
type Config struct {
	// ServiceName identifies this process in metrics.
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the version string reported with metrics.
	ServiceVersion string `yaml:"service_version"`

	// MetricExporter selects the exporter: "prometheus", "stdout", or "none".
	MetricExporter string `yaml:"metric_exporter"`
}

// DefaultConfig returns a config exporting to Prometheus.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "gomarkov",
		ServiceVersion: "dev",
		MetricExporter: "prometheus",
	}
}

// Telemetry holds the metric pipeline of one process.
type Telemetry struct {
	registry *prometheus.Registry
	provider metric.MeterProvider
	shutdown func(context.Context) error
}

// Init builds the metric pipeline for cfg. Call Shutdown on exit.
func Init(_ context.Context, cfg Config) (*Telemetry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	t := &Telemetry{
		registry: reg,
		shutdown: func(context.Context) error { return nil },
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		t.provider, t.shutdown = mp, mp.Shutdown

	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
		t.provider, t.shutdown = mp, mp.Shutdown

	case "none", "":
		t.provider = noop.NewMeterProvider()

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MetricExporter)
	}

	return t, nil
}

// Registry returns the Prometheus registry metrics are gathered from.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Meter returns an OpenTelemetry meter from the configured provider.
func (t *Telemetry) Meter(name string) metric.Meter {
	return t.provider.Meter(name)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}
