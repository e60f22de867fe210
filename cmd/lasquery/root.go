package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/lasquery-mcp-server/internal/config"
	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/log"
	"github.com/codex-k8s/lasquery-mcp-server/internal/render"
)

var version = "0.1.0"

// Process exit codes.
const (
	exitOK          = 0
	exitToolFailure = 1
	exitUsage       = 2
	exitConfig      = 3
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func configError(err error) error {
	return &exitError{code: exitConfig, err: err}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	lastools   string
	wine       string
	project    string
	layers     []string
	logLevel   string
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	// lasview runs in its own process group; forward interrupts through the context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "lasquery: %v\n", err)
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	// cobra reports unknown commands and bad flags as plain errors
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "lasquery",
		Short:         "Open flightline point clouds of vector layers in LAStools lasview",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file (defaults to $LASQUERY_CONFIG when set)")
	pf.StringVar(&flags.lastools, "lastools", "", "LAStools installation folder (overrides config and $LASTOOLS_FOLDER)")
	pf.StringVar(&flags.wine, "wine", "", "wine folder used to run Windows LAStools binaries")
	pf.StringVarP(&flags.project, "project", "p", "", "YAML project file listing layers")
	pf.StringArrayVarP(&flags.layers, "layer", "l", nil, "layer as name=type:source, repeatable, in registry order")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(newQueryCmd(flags), newLayersCmd(flags))
	return cmd
}

// load resolves the effective config: YAML file when given, flags on top.
func (f *rootFlags) load(cmd *cobra.Command) (*dsl.Config, *slog.Logger, error) {
	envCfg, err := config.Load()
	if err != nil {
		return nil, nil, configError(err)
	}
	logger := log.New(cmd.ErrOrStderr(), f.logLevel, "text")

	layers, err := parseLayerFlags(f.layers)
	if err != nil {
		return nil, nil, err
	}
	if f.project != "" && len(layers) > 0 {
		return nil, nil, usageErrorf("--project and --layer are mutually exclusive")
	}

	overrides := []dsl.Override{
		dsl.WithLAStools(envCfg.LAStoolsFolder, envCfg.WineFolder),
		dsl.WithLAStools(f.lastools, f.wine),
		withProject(f.project, layers),
	}

	path := f.configPath
	if path == "" {
		if _, set := os.LookupEnv("LASQUERY_CONFIG"); set {
			path = envCfg.ConfigPath
		}
	}

	var cfg *dsl.Config
	if path != "" {
		rendered, err := render.RenderFile(path)
		if err != nil {
			return nil, nil, configError(err)
		}
		cfg, err = dsl.Load(rendered, overrides...)
		if err != nil {
			return nil, nil, configError(err)
		}
	} else {
		cfg = &dsl.Config{Server: dsl.ServerConfig{Name: "lasquery", Version: version, Transport: dsl.TransportStdio}}
		for _, override := range overrides {
			override(cfg)
		}
		if err := dsl.Validate(cfg); err != nil {
			return nil, nil, configError(err)
		}
	}
	return cfg, logger, nil
}

func withProject(file string, layers []lastools.Layer) dsl.Override {
	return func(cfg *dsl.Config) {
		switch {
		case file != "":
			cfg.Project.File = file
			cfg.Project.Layers = nil
		case len(layers) > 0:
			cfg.Project.File = ""
			cfg.Project.Layers = layers
		}
	}
}

// parseLayerFlags parses name=type:source values.
func parseLayerFlags(values []string) ([]lastools.Layer, error) {
	layers := make([]lastools.Layer, 0, len(values))
	for _, value := range values {
		name, rest, ok := strings.Cut(value, "=")
		if !ok {
			return nil, usageErrorf("invalid --layer %q: want name=type:source", value)
		}
		layerType, source, ok := strings.Cut(rest, ":")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(layerType) == "" || source == "" {
			return nil, usageErrorf("invalid --layer %q: want name=type:source", value)
		}
		layers = append(layers, lastools.Layer{
			Name:   strings.TrimSpace(name),
			Type:   strings.TrimSpace(layerType),
			Source: source,
		})
	}
	return layers, nil
}
