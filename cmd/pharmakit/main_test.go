package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/dmitrymomot/pharmakit/internal/testutil"
	"github.com/dmitrymomot/pharmakit/pkg/config"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/telemetry"
)

func TestRun(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.AddAccount("Pat", "pat@example.com", "pw", rbac.Pharmacist)

	store := filepath.Join(t.TempDir(), "session.json")
	t.Setenv("PHARMACY_API_URL", backend.URL)
	t.Setenv("PHARMACY_API_RETRY_ATTEMPTS", "1")
	t.Setenv("TOKEN_STORE_DRIVER", "file")
	t.Setenv("TOKEN_STORE_PATH", store)
	t.Setenv("APP_ENV", "production")

	var out, logs bytes.Buffer
	err := run(context.Background(), strings.NewReader("login pat@example.com pw\nwhoami\nquit\n"), &out, &logs)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "welcome, Pharmacist")
	assert.Contains(t, out.String(), "/dashboard/pharmacist> ")
	assert.FileExists(t, store)

	out.Reset()
	err = run(context.Background(), strings.NewReader("whoami\nlogout\n"), &out, &logs)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Pharmacist until", "session restored from the token store")
	assert.NoFileExists(t, store)
	assert.Equal(t, 1, backend.Calls("POST /auth/logout"))
}

func TestRun_RoutesFile(t *testing.T) {
	backend := testutil.NewBackend(t)

	routes := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(routes, []byte("routes:\n  /cart: [admin]\n"), 0o600))

	t.Setenv("PHARMACY_API_URL", backend.URL)
	t.Setenv("TOKEN_STORE_DRIVER", "memory")
	t.Setenv("ROUTES_FILE", routes)

	var out, logs bytes.Buffer
	require.NoError(t, run(context.Background(), strings.NewReader("cart\n"), &out, &logs))
	assert.Contains(t, out.String(), "/cart requires login")
}

func TestRun_ConfigErrors(t *testing.T) {
	t.Setenv("TOKEN_STORE_DRIVER", "floppy")

	var out, logs bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &logs)
	require.Error(t, err)

	err = run(context.Background(), strings.NewReader(""), &out, &logs,
		config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestRun_Telemetry(t *testing.T) {
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})

	exports := make(chan string, 16)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exports <- r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)

	backend := testutil.NewBackend(t)
	backend.AddMedicine(testutil.Medicine{Name: "Paracetamol", Price: 50})

	t.Setenv("PHARMACY_API_URL", backend.URL)
	t.Setenv("TOKEN_STORE_DRIVER", "memory")
	t.Setenv("TELEMETRY_ENABLED", "true")
	t.Setenv("TELEMETRY_ENDPOINT", strings.TrimPrefix(collector.URL, "http://"))

	var out, logs bytes.Buffer
	require.NoError(t, run(context.Background(), strings.NewReader("medicines\n"), &out, &logs))
	assert.Contains(t, out.String(), "Paracetamol")

	select {
	case got := <-exports:
		assert.Equal(t, "POST /v1/traces", got, "spans are flushed to the collector on exit")
	default:
		t.Fatal("no spans exported")
	}
}

func TestRun_TelemetryRequiresEndpoint(t *testing.T) {
	t.Setenv("TOKEN_STORE_DRIVER", "memory")
	t.Setenv("TELEMETRY_ENABLED", "true")

	var out, logs bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &logs)
	assert.ErrorIs(t, err, telemetry.ErrMissingEndpoint)
}
