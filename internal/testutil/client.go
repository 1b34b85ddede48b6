package testutil

import (
	"testing"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
)

// NewClient returns an API client for baseURL without retries.
// A nil ts sends no bearer token.
func NewClient(t testing.TB, baseURL string, ts apiclient.TokenSource) *apiclient.Client {
	t.Helper()

	opts := []apiclient.Option{apiclient.WithLogger(logger.Discard())}
	if ts != nil {
		opts = append(opts, apiclient.WithTokenSource(ts))
	}

	c, err := apiclient.New(apiclient.Config{
		BaseURL:          baseURL,
		Timeout:          2 * time.Second,
		RetryAttempts:    1,
		RetryMaxInterval: 10 * time.Millisecond,
	}, opts...)
	if err != nil {
		t.Fatalf("create api client: %v", err)
	}
	return c
}

// StaticToken is a TokenSource holding a fixed token.
func StaticToken(token string) apiclient.TokenSource {
	return apiclient.TokenFunc(func() (string, bool) {
		return token, token != ""
	})
}
