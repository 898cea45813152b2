// Package telemetry wires zerolog, OTEL metrics and traces for tagwarden.
package telemetry

import (
	"context"
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Global telemetry handles
var (
	Tracer = otel.Tracer("github.com/tagwarden/tagwarden")
	Meter  = otel.Meter("github.com/tagwarden/tagwarden")

	// PrometheusRegistry for scraping; the OTEL exporter registers itself here
	PrometheusRegistry *promclient.Registry
)

// Config for telemetry initialization
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "tagwarden"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}
	return cfg
}

// Init initializes OTEL traces and metrics with a Prometheus exporter
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	cfg = applyConfigDefaults(cfg)

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(traceProvider)
	Tracer = traceProvider.Tracer("github.com/tagwarden/tagwarden")

	PrometheusRegistry = promclient.NewRegistry()
	promExporter, err := prometheus.New(prometheus.WithRegisterer(PrometheusRegistry))
	if err != nil {
		_ = traceProvider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)
	otel.SetMeterProvider(meterProvider)
	Meter = meterProvider.Meter("github.com/tagwarden/tagwarden")

	if err := initMetrics(); err != nil {
		_ = traceProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return func(ctx context.Context) error {
		var err error
		if e := traceProvider.Shutdown(ctx); e != nil {
			err = fmt.Errorf("trace shutdown failed: %w", e)
		}
		if e := meterProvider.Shutdown(ctx); e != nil && err == nil {
			err = fmt.Errorf("metric shutdown failed: %w", e)
		}
		return err
	}, nil
}
