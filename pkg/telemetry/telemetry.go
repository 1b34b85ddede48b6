package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const defaultServiceName = "pharmakit"

// Option configures Setup.
type Option func(*options)

type options struct {
	exporter sdktrace.SpanExporter
	sync     bool
}

// WithExporter sends spans to exp instead of an OTLP collector. The endpoint
// is then not required.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.exporter = exp
	}
}

// WithSyncExport exports every span as it ends instead of batching. Meant for tests.
func WithSyncExport() Option {
	return func(o *options) {
		o.sync = true
	}
}

// Provider owns the tracer provider installed by Setup.
type Provider struct {
	tp         *sdktrace.TracerProvider
	propagator propagation.TextMapPropagator
}

// Setup installs tracing according to cfg. With cfg.Enabled false it returns
// a no-op Provider and leaves the OpenTelemetry globals untouched.
func Setup(ctx context.Context, cfg Config, opts ...Option) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return nil, ErrInvalidSampleRatio
	}

	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", name)),
	)
	if err != nil {
		return nil, errors.Join(ErrResource, err)
	}

	exp := o.exporter
	if exp == nil {
		if cfg.Endpoint == "" {
			return nil, ErrMissingEndpoint
		}
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		if exp, err = otlptracehttp.New(ctx, httpOpts...); err != nil {
			return nil, errors.Join(ErrExporter, err)
		}
	}

	processor := sdktrace.NewBatchSpanProcessor(exp)
	if o.sync {
		processor = sdktrace.NewSimpleSpanProcessor(exp)
	}

	p := &Provider{
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
			sdktrace.WithResource(res),
			sdktrace.WithSpanProcessor(processor),
		),
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}

	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(p.propagator)

	return p, nil
}

// Enabled reports whether Setup installed a tracer provider.
func (p *Provider) Enabled() bool {
	return p != nil && p.tp != nil
}

// TracerProvider returns the installed provider, or the global one when disabled.
func (p *Provider) TracerProvider() trace.TracerProvider {
	if !p.Enabled() {
		return otel.GetTracerProvider()
	}
	return p.tp
}

// Propagator returns the installed propagator, or the global one when disabled.
func (p *Provider) Propagator() propagation.TextMapPropagator {
	if !p.Enabled() {
		return otel.GetTextMapPropagator()
	}
	return p.propagator
}

// Shutdown flushes pending spans and stops the exporter. It is safe to call
// on a disabled Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
