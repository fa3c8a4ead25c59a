// Package telemetry configures OpenTelemetry tracing and metrics for the server.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config selects where telemetry goes.
type Config struct {
	ServiceName string
	// OTLPEndpoint is a full URL such as http://localhost:4318. Empty keeps
	// spans and metrics in process only.
	OTLPEndpoint string
	// MetricInterval is how often metrics are pushed. Zero uses the SDK default.
	MetricInterval time.Duration
}

// Providers owns the SDK providers installed as the global otel providers.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	// MetricReader pushes metrics to the OTLP endpoint; nil when none is set.
	MetricReader sdkmetric.Reader
}

// Setup builds the tracer and meter providers and registers them globally.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	p := &Providers{}
	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		traceExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
		if err != nil {
			return nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExporter))

		metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(cfg.OTLPEndpoint))
		if err != nil {
			return nil, fmt.Errorf("create otlp metric exporter: %w", err)
		}
		var readerOpts []sdkmetric.PeriodicReaderOption
		if cfg.MetricInterval > 0 {
			readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
		}
		p.MetricReader = sdkmetric.NewPeriodicReader(metricExporter, readerOpts...)
		meterOpts = append(meterOpts, sdkmetric.WithReader(p.MetricReader))
	}

	p.TracerProvider = sdktrace.NewTracerProvider(traceOpts...)
	p.MeterProvider = sdkmetric.NewMeterProvider(meterOpts...)

	otel.SetTracerProvider(p.TracerProvider)
	otel.SetMeterProvider(p.MeterProvider)

	return p, nil
}

// Shutdown flushes and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
