package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/lasquery-mcp-server/internal/audit"
	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/protocol"
	"github.com/codex-k8s/lasquery-mcp-server/internal/runtime"
)

type queryFlags struct {
	aoi           string
	verbose       bool
	gui           bool
	additional    string
	dryRun        bool
	timeout       string
	correlationID string
	quiet         bool
}

func newQueryCmd(root *rootFlags) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run lasview on the point clouds of all vector layers inside an area of interest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, root, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.aoi, "aoi", "", "area of interest as xmin,xmax,ymin,ymax")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "pass -v to lasview")
	f.BoolVar(&flags.gui, "gui", false, "pass -gui to lasview")
	f.StringVar(&flags.additional, "additional", "", "additional lasview flags")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print the command line without running lasview")
	f.StringVar(&flags.timeout, "timeout", "", "abort lasview after this duration")
	f.StringVar(&flags.correlationID, "correlation-id", "", "identifier echoed in logs and output")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "do not echo lasview console output")
	return cmd
}

func runQuery(cmd *cobra.Command, root *rootFlags, flags *queryFlags) error {
	if flags.aoi == "" {
		return usageErrorf("--aoi is required")
	}
	if _, err := lastools.ParseExtent(flags.aoi); err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	cfg, logger, err := root.load(cmd)
	if err != nil {
		return err
	}
	if flags.timeout != "" {
		if _, err := time.ParseDuration(flags.timeout); err != nil {
			return usageErrorf("invalid --timeout %q: %v", flags.timeout, err)
		}
		cfg.Query.Timeout = flags.timeout
	}

	builder := runtime.Builder{Logger: logger, Audit: audit.New(logger)}
	tool, err := builder.QueryTool(cfg)
	if err != nil {
		return configError(err)
	}
	if !flags.quiet {
		stderr := cmd.ErrOrStderr()
		tool.Console = executil.ProgressFunc(func(line string) {
			fmt.Fprintln(stderr, line)
		})
	}

	in := runtime.QueryInput{
		AOI:           flags.aoi,
		DryRun:        flags.dryRun,
		CorrelationID: flags.correlationID,
	}
	if cmd.Flags().Changed("verbose") {
		in.Verbose = &flags.verbose
	}
	if cmd.Flags().Changed("gui") {
		in.GUI = &flags.gui
	}
	if cmd.Flags().Changed("additional") {
		in.Additional = &flags.additional
	}

	_, resp, err := tool.Handle(cmd.Context(), nil, in)
	if err != nil {
		return &exitError{code: exitToolFailure, err: err}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if resp.Status != protocol.StatusSuccess {
		return &exitError{code: exitToolFailure, err: errors.New(resp.Reason)}
	}
	return nil
}
