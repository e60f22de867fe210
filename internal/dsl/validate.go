package dsl

import (
	"fmt"
	"strings"
	"time"

	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/project"
)

// Transports.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Validate applies defaults and verifies required fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Server.Name == "" {
		return fmt.Errorf("server.name is required")
	}
	if cfg.Server.Version == "" {
		return fmt.Errorf("server.version is required")
	}
	cfg.Server.Transport = strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	switch cfg.Server.Transport {
	case "":
		cfg.Server.Transport = TransportHTTP
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("server.transport must be http or stdio")
	}
	if cfg.Server.Transport == TransportHTTP {
		if strings.TrimSpace(cfg.Server.HTTP.Listen) == "" {
			cfg.Server.HTTP.Listen = ":8080"
		}
		if cfg.Server.HTTP.Path == "" {
			cfg.Server.HTTP.Path = "/mcp"
		}
		if !strings.HasPrefix(cfg.Server.HTTP.Path, "/") {
			return fmt.Errorf("server.http.path must start with /")
		}
		if p := cfg.Server.HTTP.MetricsPath; p != "" && !strings.HasPrefix(p, "/") {
			return fmt.Errorf("server.http.metrics_path must start with /")
		}
	}
	for name, value := range map[string]string{
		"server.shutdown_timeout":   cfg.Server.ShutdownTimeout,
		"server.http.read_timeout":  cfg.Server.HTTP.ReadTimeout,
		"server.http.write_timeout": cfg.Server.HTTP.WriteTimeout,
		"server.http.idle_timeout":  cfg.Server.HTTP.IdleTimeout,
		"query.timeout":             cfg.Query.Timeout,
	} {
		if err := checkDuration(name, value); err != nil {
			return err
		}
	}

	for i, hook := range cfg.Server.StartupHooks {
		if strings.TrimSpace(hook.Command) == "" {
			return fmt.Errorf("server.startup_hooks[%d].command is required", i)
		}
		if err := checkDuration(fmt.Sprintf("server.startup_hooks[%d].timeout", i), hook.Timeout); err != nil {
			return err
		}
	}

	if strings.TrimSpace(cfg.LAStools.Folder) == "" {
		return fmt.Errorf("lastools.folder is required")
	}
	if cfg.LAStools.VectorExt == "" {
		cfg.LAStools.VectorExt = lastools.DefaultVectorExt
	}
	if !strings.HasPrefix(cfg.LAStools.VectorExt, ".") {
		return fmt.Errorf("lastools.vector_ext must start with a dot")
	}

	if cfg.Project.File != "" && len(cfg.Project.Layers) > 0 {
		return fmt.Errorf("project.file and project.layers are mutually exclusive")
	}
	if err := project.Validate(cfg.Project.Layers); err != nil {
		return fmt.Errorf("project.%w", err)
	}

	if cfg.Query.Title == "" {
		cfg.Query.Title = "LAStools lasquery"
	}
	if cfg.Query.Description == "" {
		cfg.Query.Description = "Open the flightline point clouds of all loaded vector layers in lasview, clipped to an area of interest given as xmin,xmax,ymin,ymax."
	}
	if cfg.Query.Limits.MaxTotal < 0 {
		return fmt.Errorf("query.limits.max_total must be >= 0")
	}
	if cfg.Query.Limits.RatePerMinute < 0 {
		return fmt.Errorf("query.limits.rate_per_minute must be >= 0")
	}

	return nil
}

func checkDuration(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	return nil
}
