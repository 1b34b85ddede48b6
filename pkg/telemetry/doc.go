// Package telemetry installs OpenTelemetry tracing for the process.
//
// Setup builds an SDK tracer provider that batches spans to an OTLP/HTTP
// collector and registers it, together with the W3C trace-context and
// baggage propagators, as the OpenTelemetry globals. Outgoing API calls made
// through pkg/apiclient then carry a traceparent header and show up as client
// spans named after the route, for example "GET /orders/my".
//
// Tracing is off unless TELEMETRY_ENABLED is true. A disabled Provider is a
// no-op: it changes no globals, its Shutdown returns nil, and its
// TracerProvider and Propagator return the current OpenTelemetry globals.
//
// # Configuration
//
//	TELEMETRY_ENABLED       turn tracing on (default false)
//	TELEMETRY_SERVICE_NAME  service.name resource attribute (default "pharmakit")
//	TELEMETRY_ENDPOINT      collector host:port, required when enabled
//	TELEMETRY_INSECURE      plain HTTP to the collector (default true)
//	TELEMETRY_SAMPLE_RATIO  fraction of new traces sampled, 0..1 (default 1)
//
// # Usage
//
//	var cfg telemetry.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	tel, err := telemetry.Setup(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer func() {
//		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//		defer cancel()
//		_ = tel.Shutdown(ctx)
//	}()
//
//	api, err := apiclient.New(apiCfg,
//		apiclient.WithTracing(tel.TracerProvider(), tel.Propagator()),
//	)
//
// Tests and embedders can bypass the OTLP exporter with WithExporter, for
// example with an in-memory exporter from go.opentelemetry.io/otel/sdk/trace/tracetest.
package telemetry
