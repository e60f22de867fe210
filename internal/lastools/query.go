package lastools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codex-k8s/lasquery-mcp-server/internal/audit"
	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
)

// Runner executes a built command line.
type Runner interface {
	// Run blocks until the process exits, streaming console lines to progress.
	Run(ctx context.Context, argv []string, progress executil.Progress) (executil.Result, error)
}

// Outcome is the result of one lasquery invocation.
type Outcome struct {
	// Command is the argv that was (or would have been) executed.
	Command CommandLine
	// Result holds the process output and exit code; zero for dry runs.
	Result executil.Result
	// DryRun is set when the process was not started.
	DryRun bool
}

// Query is the lasquery action: build the lasview command line and run it.
type Query struct {
	// Builder assembles the command line.
	Builder Builder
	// Runner executes it.
	Runner Runner
	// Logger receives the processing log.
	Logger *slog.Logger
	// Audit records run events.
	Audit audit.Logger
}

// Run builds the command line for req and, unless dryRun is set, executes it.
// Process failures are returned as errors alongside the captured outcome.
func (q Query) Run(ctx context.Context, req Request, progress executil.Progress, dryRun bool) (Outcome, error) {
	q.record(ctx, audit.Event{Type: audit.EventCall, CorrelationID: req.CorrelationID})

	cmdLine, err := q.Builder.Build(ctx, req)
	if err != nil {
		q.record(ctx, audit.Event{Type: audit.EventError, CorrelationID: req.CorrelationID, ExitCode: -1, Reason: err.Error()})
		return Outcome{}, err
	}
	outcome := Outcome{Command: cmdLine, DryRun: dryRun}

	for _, warning := range cmdLine.Warnings {
		if q.Logger != nil {
			q.Logger.Warn("derived point cloud path", "correlation_id", req.CorrelationID, "warning", warning)
		}
		q.record(ctx, audit.Event{Type: audit.EventWarning, CorrelationID: req.CorrelationID, Reason: warning})
	}
	if q.Logger != nil {
		q.Logger.Info("LAStools command line", "correlation_id", req.CorrelationID, "command", cmdLine.String(), "aoi", cmdLine.Extent.String(), "inputs", len(cmdLine.Inputs()), "dry_run", dryRun)
	}
	q.record(ctx, audit.Event{Type: audit.EventCommand, CorrelationID: req.CorrelationID, Command: cmdLine.String()})

	if dryRun {
		return outcome, nil
	}
	if q.Runner == nil {
		return outcome, fmt.Errorf("runner is not configured")
	}

	res, err := q.Runner.Run(ctx, cmdLine.Args, progress)
	outcome.Result = res
	if q.Logger != nil && strings.TrimSpace(res.Output) != "" {
		q.Logger.Info("LAStools console output", "correlation_id", req.CorrelationID, "output", strings.TrimSpace(res.Output))
	}
	if err != nil {
		q.record(ctx, audit.Event{Type: audit.EventError, CorrelationID: req.CorrelationID, Command: cmdLine.String(), ExitCode: res.ExitCode, Reason: err.Error()})
		return outcome, fmt.Errorf("%s failed: %w", ToolLasview, err)
	}
	q.record(ctx, audit.Event{Type: audit.EventOK, CorrelationID: req.CorrelationID, Command: cmdLine.String(), ExitCode: res.ExitCode})
	return outcome, nil
}

func (q Query) record(ctx context.Context, event audit.Event) {
	if q.Audit == nil {
		return
	}
	event.Tool = "lasquery"
	q.Audit.Record(ctx, event)
}
