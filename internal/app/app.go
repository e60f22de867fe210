package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/http/health"
	"github.com/codex-k8s/lasquery-mcp-server/internal/metrics"
)

// App controls the HTTP server lifecycle.
type App struct {
	baseCtx         context.Context
	server          *http.Server
	health          *health.Handler
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New initializes the HTTP server with the MCP handler, health and metrics endpoints.
// probe gates readiness; shutdownTimeout of zero falls back to the YAML setting.
func New(baseCtx context.Context, serverCfg dsl.ServerConfig, handler http.Handler, probe func() error, logger *slog.Logger, shutdownTimeout time.Duration) (*App, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is nil")
	}
	if baseCtx == nil {
		return nil, fmt.Errorf("base context is nil")
	}

	healthHandler := health.New(probe)
	mux := http.NewServeMux()
	mux.Handle(serverCfg.HTTP.Path, handler)
	healthHandler.Register(mux)
	if serverCfg.HTTP.MetricsPath != "" {
		mux.Handle(serverCfg.HTTP.MetricsPath, metrics.Handler())
	}

	srv := &http.Server{
		Addr:         serverCfg.HTTP.Listen,
		Handler:      mux,
		ReadTimeout:  serverCfg.HTTP.ReadTimeoutOrDefault(),
		WriteTimeout: serverCfg.HTTP.WriteTimeoutOrDefault(),
		IdleTimeout:  serverCfg.HTTP.IdleTimeoutOrDefault(),
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	if shutdownTimeout == 0 {
		shutdownTimeout = serverCfg.ShutdownTimeoutOrDefault()
	}

	return &App{
		baseCtx:         baseCtx,
		server:          srv,
		health:          healthHandler,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.health.SetReady()
		if a.logger != nil {
			a.logger.Info("http server started", "addr", a.server.Addr)
		}
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown requested")
		}
		return a.shutdown()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if a.logger != nil {
			a.logger.Error("http server error", "error", err)
		}
		return err
	}
}

func (a *App) shutdown() error {
	a.health.SetNotReady()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.baseCtx), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
