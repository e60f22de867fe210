package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/metrics"
)

func serverConfig() dsl.ServerConfig {
	return dsl.ServerConfig{HTTP: dsl.HTTPConfig{Listen: "127.0.0.1:0", Path: "/mcp", MetricsPath: "/metrics"}}
}

func TestNewValidates(t *testing.T) {
	_, err := New(context.Background(), serverConfig(), nil, nil, nil, 0)
	require.Error(t, err)
	//nolint:staticcheck // nil context is the case under test
	_, err = New(nil, serverConfig(), http.NotFoundHandler(), nil, nil, 0)
	require.Error(t, err)
}

func TestRoutes(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mcp"))
	})
	a, err := New(context.Background(), serverConfig(), mcpHandler, nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, dsl.DefaultShutdownTimeout, a.shutdownTimeout)

	metrics.RunsTotal.WithLabelValues(metrics.StatusDryRun).Inc()

	for path, want := range map[string]string{"/mcp": "mcp", "/healthz": "ok", "/metrics": "lasquery_lastools_runs_total"} {
		rec := httptest.NewRecorder()
		a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, strings.Contains(rec.Body.String(), want), path)
	}

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), serverConfig(), http.NotFoundHandler(), nil, nil, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
