package apiclient

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TokenSource yields the bearer token of the current session.
type TokenSource interface {
	Token() (string, bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, bool)

// Token calls f.
func (f TokenFunc) Token() (string, bool) { return f() }

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default client. Neither the configured
// timeout nor tracing is applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets where bearer tokens come from. Without it every
// request is sent anonymously and AuthRequired calls fail with ErrUnauthenticated.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the logger for per-call debug records. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracing sets the tracer provider and propagator used by the default
// transport. A nil argument falls back to the OpenTelemetry global.
func WithTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) Option {
	return func(c *Client) {
		c.tracerProvider = tp
		c.propagator = prop
	}
}
