// Package telemetry wires OpenTelemetry tracing for the network and batch
// hosts.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/numkernels/internal/kernels"
)

// Environment variables controlling Setup.
const (
	EnvEndpoint = "NUMKERNELS_OTEL_ENDPOINT"
	EnvEnabled  = "NUMKERNELS_OTEL_ENABLED"
)

// InstrumentationName is the tracer name used for every span.
const InstrumentationName = "github.com/agbru/numkernels"

// Setup initialises OTLP/HTTP tracing for serviceName.
//
// Tracing is opt-in: when NUMKERNELS_OTEL_ENDPOINT is empty or
// NUMKERNELS_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and leaves the global provider untouched.
func Setup(ctx context.Context, serviceName, version string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return noop, nil
	}
	endpoint := os.Getenv(EnvEndpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// RequestAttributes describes a kernel request as span attributes.
func RequestAttributes(req kernels.Request) []attribute.KeyValue {
	args := make([]int64, len(req.Args))
	for i, a := range req.Args {
		args[i] = int64(a)
	}
	return []attribute.KeyValue{
		attribute.String("kernel.op", string(req.Op)),
		attribute.Int64Slice("kernel.args", args),
	}
}

// StartEvaluation opens a span named after the request's operation using the
// given tracer (or the global one when nil).
func StartEvaluation(ctx context.Context, tracer trace.Tracer, req kernels.Request) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, "kernel."+string(req.Op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(RequestAttributes(req)...))
}
