// Package tracing sets up the OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// Options controls Setup.
type Options struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// Setup registers a global tracer provider exporting over OTLP/HTTP.
//
// Tracing is opt-in: when disabled or when no endpoint is configured, Setup
// returns a no-op shutdown and leaves the global no-op provider in place.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if !opts.Enabled || strings.TrimSpace(opts.Endpoint) == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.Endpoint))
	if err != nil {
		return noop, err
	}

	name := opts.ServiceName
	if name == "" {
		name = "regatta"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(name)))
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

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
