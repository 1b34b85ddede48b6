package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/requestid"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Auth says whether a request carries the session token.
type Auth int

const (
	// AuthNone never sends a token.
	AuthNone Auth = iota
	// AuthOptional sends the token when a session exists.
	AuthOptional
	// AuthRequired fails with ErrUnauthenticated when there is no session.
	AuthRequired
)

// Request describes a single API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Auth   Auth
	// Token overrides the TokenSource for this request when set.
	Token string
}

// Client talks to the pharmacy REST backend.
type Client struct {
	baseURL          *url.URL
	http             *http.Client
	tokens           TokenSource
	logger           *slog.Logger
	retryAttempts    uint
	retryMaxInterval time.Duration

	tracerProvider trace.TracerProvider
	propagator     propagation.TextMapPropagator
}

// New creates a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		baseURL:          u,
		logger:           slog.Default(),
		retryAttempts:    max(cfg.RetryAttempts, 1),
		retryMaxInterval: cfg.RetryMaxInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: c.tracedTransport(http.DefaultTransport),
		}
	}

	return c, nil
}

// tracedTransport wraps base in a client span per request and injects the
// trace context into the outgoing headers. Without WithTracing the global
// OpenTelemetry provider and propagator are used.
func (c *Client) tracedTransport(base http.RoundTripper) http.RoundTripper {
	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + strings.TrimPrefix(r.URL.Path, c.baseURL.Path)
		}),
	}
	if c.tracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(c.tracerProvider))
	}
	if c.propagator != nil {
		opts = append(opts, otelhttp.WithPropagators(c.propagator))
	}
	return otelhttp.NewTransport(base, opts...)
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type response struct {
	status int
	body   []byte
}

// Do performs req and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	ctx, reqID := requestid.Ensure(ctx)

	token := req.Token
	if req.Auth == AuthNone {
		token = ""
	} else if token == "" && c.tokens != nil {
		token, _ = c.tokens.Token()
	}
	if req.Auth == AuthRequired && token == "" {
		return ErrUnauthenticated
	}

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return err
		}
		payload = b
	}

	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	attempt := 0
	send := func() (response, error) {
		attempt++
		started := time.Now()

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		hreq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
		if err != nil {
			return response{}, backoff.Permanent(err)
		}
		hreq.Header.Set("Accept", "application/json")
		hreq.Header.Set(requestid.Header, reqID)
		if payload != nil {
			hreq.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			hreq.Header.Set("Authorization", "Bearer "+token)
		}

		res, err := c.http.Do(hreq)
		if err != nil {
			c.logger.DebugContext(ctx, "api call failed",
				logger.HTTP(req.Method, req.Path, 0),
				logger.Attempt(attempt),
				logger.Error(err),
			)
			return response{}, errors.Join(ErrNetwork, err)
		}
		defer res.Body.Close()

		limit := io.Reader(res.Body)
		if res.StatusCode >= 300 {
			limit = io.LimitReader(res.Body, maxErrorBody)
		}
		data, err := io.ReadAll(limit)
		if err != nil {
			return response{}, errors.Join(ErrNetwork, err)
		}

		c.logger.DebugContext(ctx, "api call",
			logger.HTTP(req.Method, req.Path, res.StatusCode),
			logger.Attempt(attempt),
			logger.Duration(time.Since(started)),
		)

		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return response{status: res.StatusCode, body: data}, statusError(res.StatusCode, data)
		}
		return response{status: res.StatusCode, body: data}, nil
	}

	var (
		res response
		err error
	)
	if req.Method == http.MethodGet && c.retryAttempts > 1 {
		res, err = backoff.Retry(ctx, func() (response, error) {
			r, err := send()
			if err != nil && !retryable(err) {
				return r, backoff.Permanent(err)
			}
			return r, err
		},
			backoff.WithBackOff(c.backOff()),
			backoff.WithMaxTries(c.retryAttempts),
		)
	} else {
		res, err = send()
	}
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		return err
	}

	if out == nil || len(bytes.TrimSpace(res.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return errors.Join(ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	if c.retryMaxInterval > 0 {
		b.MaxInterval = c.retryMaxInterval
	}
	return b
}

// Get sends a GET to path with query. GETs are retried on transport
// failures, 429 and 5xx when the client has more than one attempt.
func (c *Client) Get(ctx context.Context, path string, query url.Values, auth Auth, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Auth: auth}, out)
}

// Post sends body as JSON to path. It is never retried.
func (c *Client) Post(ctx context.Context, path string, body any, auth Auth, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Auth: auth}, out)
}

// Put sends body as JSON to path. It is never retried.
func (c *Client) Put(ctx context.Context, path string, body any, auth Auth, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, Auth: auth}, out)
}

// Delete sends a DELETE to path. It is never retried.
func (c *Client) Delete(ctx context.Context, path string, auth Auth, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Auth: auth}, out)
}

// statusError builds a StatusError, pulling the message out of a JSON body
// shaped like {"error": "..."} or {"message": "..."}.
func statusError(code int, body []byte) *StatusError {
	se := &StatusError{Code: code}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		se.Message = payload.Error
		if se.Message == "" {
			se.Message = payload.Message
		}
	}

	return se
}
