// Package telemetry configures OpenTelemetry tracing and the cache metrics.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const instrumentationName = "github.com/goliatone/go-storefront"

// ShutdownFunc flushes pending telemetry.
type ShutdownFunc func(context.Context) error

// Setup initialises tracing for serviceName. An empty endpoint leaves the
// global no-op provider in place and returns a no-op shutdown.
func Setup(ctx context.Context, endpoint, serviceName string) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// CacheLookupCounter returns the storefront.cache.lookups counter on the
// global meter provider.
func CacheLookupCounter() (metric.Int64Counter, error) {
	return otel.Meter(instrumentationName).Int64Counter(
		"storefront.cache.lookups",
		metric.WithDescription("Entity cache lookups by entity and result"),
		metric.WithUnit("{lookup}"),
	)
}
