// Package tracing configures the OpenTelemetry SDK and hands out
// component-scoped tracers.
package tracing

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationPrefix prefixes every tracer name handed out by Tracer.
const InstrumentationPrefix = "github.com/utafrali/storefront/"

// ErrNoEndpoint is returned when tracing is enabled without an exporter
// endpoint.
var ErrNoEndpoint = errors.New("tracing enabled without an OTLP endpoint")

// Config holds OpenTelemetry tracing configuration. OTLPEndpoint is a
// host:port for OTLP over HTTP, e.g. "localhost:4318".
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SampleRate     float64
	Enabled        bool
}

// ShutdownFunc flushes pending spans and stops the provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Option customizes InitTracer.
type Option func(*options)

type options struct {
	exporter sdktrace.SpanExporter
}

// WithExporter replaces the OTLP exporter. The endpoint is then not
// required.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.exporter = exp }
}

// InitTracer installs a global tracer provider and the W3C trace-context
// and baggage propagators. Disabled tracing leaves the no-op global provider
// in place.
func InitTracer(ctx context.Context, cfg Config, opts ...Option) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	exporter := o.exporter
	if exporter == nil {
		if cfg.OTLPEndpoint == "" {
			return nil, ErrNoEndpoint
		}
		var err error
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create OTLP exporter: %w", err)
		}
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())

	return tp.Shutdown, nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithProcessRuntimeDescription(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

// Propagator carries W3C trace context and baggage across HTTP and Kafka
// hops.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Sampler returns the root sampler for rate. Child spans follow their
// parent's decision so a request that arrives sampled stays sampled.
func Sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case rate <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

// Tracer returns the tracer for a storefront component, named after its
// import path below the module root:
//
//	ctx, span := tracing.Tracer("internal/service").Start(ctx, "Storefront.AddToCart")
//	defer span.End()
func Tracer(component string) trace.Tracer {
	return otel.Tracer(InstrumentationPrefix + component)
}
