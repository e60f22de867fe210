package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/lasquery-mcp-server/configs"
	"github.com/codex-k8s/lasquery-mcp-server/internal/app"
	"github.com/codex-k8s/lasquery-mcp-server/internal/audit"
	"github.com/codex-k8s/lasquery-mcp-server/internal/config"
	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/log"
	"github.com/codex-k8s/lasquery-mcp-server/internal/render"
	"github.com/codex-k8s/lasquery-mcp-server/internal/runtime"
	"github.com/codex-k8s/lasquery-mcp-server/internal/startup"
)

func main() {
	embeddedConfig := flag.String("embedded-config", "", "Use embedded config from configs/ (filename)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr until the transport is known; stdio must keep stdout for MCP.
	logger := log.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	var rendered []byte
	if *embeddedConfig != "" {
		raw, err := configs.Load(*embeddedConfig)
		if err != nil {
			logger.Error("load embedded config failed", "error", err)
			os.Exit(1)
		}
		rendered, err = render.RenderBytes(*embeddedConfig, raw)
		if err != nil {
			logger.Error("render config failed", "error", err)
			os.Exit(1)
		}
	} else {
		rendered, err = render.RenderFile(cfg.ConfigPath)
		if err != nil {
			logger.Error("render config failed", "error", err)
			os.Exit(1)
		}
	}

	dslCfg, err := dsl.Load(rendered, dsl.WithLAStools(cfg.LAStoolsFolder, cfg.WineFolder))
	if err != nil {
		logger.Error("parse config failed", "error", err)
		os.Exit(1)
	}

	if dslCfg.Server.Transport == dsl.TransportHTTP {
		logger = log.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	}

	builder := runtime.Builder{
		Logger: logger,
		Audit:  audit.New(logger),
	}
	server, err := builder.Build(dslCfg)
	if err != nil {
		logger.Error("build server failed", "error", err)
		os.Exit(1)
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	if err := startup.Run(baseCtx, dslCfg.Server.StartupHooks, logger); err != nil {
		logger.Error("startup hooks failed", "error", err)
		os.Exit(1)
	}
	startup.Preflight(dslCfg.LAStools.Toolbox(), logger)

	switch dslCfg.Server.Transport {
	case dsl.TransportStdio:
		if err := runStdio(baseCtx, server); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		if err := runHTTP(baseCtx, cfg, dslCfg, server, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	}
}

func runStdio(ctx context.Context, server *mcp.Server) error {
	err := server.Run(ctx, &mcp.StdioTransport{})
	if err == nil || errors.Is(err, io.EOF) || ctx.Err() != nil {
		return nil
	}
	return err
}

func runHTTP(ctx context.Context, envCfg config.Config, dslCfg *dsl.Config, server *mcp.Server, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: dslCfg.Server.HTTP.Stateless,
	})

	toolbox := dslCfg.LAStools.Toolbox()
	probe := func() error { return startup.CheckExecutable(toolbox) }

	shutdownTimeout := envCfg.ShutdownTimeout
	if dslCfg.Server.ShutdownTimeout != "" {
		shutdownTimeout = 0
	}
	application, err := app.New(ctx, dslCfg.Server, handler, probe, logger, shutdownTimeout)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
