package runtime

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/lasquery-mcp-server/internal/audit"
	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/limits"
	"github.com/codex-k8s/lasquery-mcp-server/internal/metrics"
	"github.com/codex-k8s/lasquery-mcp-server/internal/project"
	"github.com/codex-k8s/lasquery-mcp-server/internal/protocol"
)

// QueryInput is the lasquery tool input.
type QueryInput struct {
	// AOI is the area of interest.
	AOI string `json:"aoi" jsonschema:"area of interest as xmin,xmax,ymin,ymax"`
	// Verbose overrides the configured -v default.
	Verbose *bool `json:"verbose,omitempty" jsonschema:"pass -v to lasview"`
	// GUI overrides the configured -gui default.
	GUI *bool `json:"gui,omitempty" jsonschema:"pass -gui to lasview"`
	// Additional overrides the configured trailing flags.
	Additional *string `json:"additional,omitempty" jsonschema:"additional lasview flags separated by spaces"`
	// Layers replaces the configured layer registry for this call.
	Layers []lastools.Layer `json:"layers,omitempty" jsonschema:"layers to use instead of the configured project"`
	// DryRun returns the command line without starting lasview.
	DryRun bool `json:"dry_run,omitempty" jsonschema:"build the command line without running it"`
	// CorrelationID links log entries; generated when empty.
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"identifier echoed in logs and the response"`
}

// QueryTool handles lasquery tool calls.
type QueryTool struct {
	// Query is the configured action.
	Query lastools.Query
	// Defaults are the configured options.
	Defaults lastools.Options
	// Guard throttles runs.
	Guard *limits.Guard
	// Timeout bounds a run; zero means no limit.
	Timeout time.Duration
	// TimeoutMessage is returned when Timeout fires.
	TimeoutMessage string
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records denials.
	Audit audit.Logger
	// Console, when set, also receives every console line.
	Console executil.Progress
}

// Handle runs lasquery for one tool call. Failures are reported in the
// response status, never as protocol errors.
func (t *QueryTool) Handle(ctx context.Context, req *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, protocol.QueryResponse, error) {
	correlationID := strings.TrimSpace(in.CorrelationID)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	resp := protocol.QueryResponse{Status: protocol.StatusSuccess, CorrelationID: correlationID}
	if t.Logger != nil {
		t.Logger.Info("tool call", "tool", ToolName, "correlation_id", correlationID, "aoi", in.AOI, "layers", len(in.Layers), "dry_run", in.DryRun)
	}

	query := t.Query
	if len(in.Layers) > 0 {
		if err := project.Validate(in.Layers); err != nil {
			return nil, t.fail(resp, err.Error(), -1), nil
		}
		query.Builder.Layers = lastools.StaticSource(in.Layers)
	}

	if !in.DryRun {
		if decision := t.Guard.Allow(); !decision.Allowed {
			resp.Status = protocol.StatusDenied
			resp.Reason = decision.Reason
			metrics.RunsTotal.WithLabelValues(metrics.StatusDenied).Inc()
			if t.Audit != nil {
				t.Audit.Record(ctx, audit.Event{Type: audit.EventDenied, Tool: ToolName, CorrelationID: correlationID, Reason: decision.Reason})
			}
			return nil, resp, nil
		}
	}

	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	start := time.Now()
	outcome, err := query.Run(runCtx, lastools.Request{
		AOI:           in.AOI,
		Options:       t.options(in),
		CorrelationID: correlationID,
	}, newSessionProgress(runCtx, req, t.Logger, correlationID, t.Console), in.DryRun)

	resp.Command = outcome.Command.Args
	resp.Inputs = outcome.Command.Inputs()
	resp.Warnings = outcome.Command.Warnings
	resp.DryRun = outcome.DryRun
	resp.ExitCode = outcome.Result.ExitCode
	resp.Output = strings.TrimSpace(outcome.Result.Output)
	metrics.PathWarnings.Add(float64(len(resp.Warnings)))
	if len(resp.Command) > 0 {
		metrics.InputsPerRun.Observe(float64(len(resp.Inputs)))
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, t.fail(resp, timeoutMessage(t.TimeoutMessage), resp.ExitCode), nil
		}
		exitCode := resp.ExitCode
		if len(resp.Command) == 0 {
			exitCode = -1
		}
		return nil, t.fail(resp, err.Error(), exitCode), nil
	}

	if in.DryRun {
		metrics.RunsTotal.WithLabelValues(metrics.StatusDryRun).Inc()
	} else {
		metrics.RunsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}
	return nil, resp, nil
}

func (t *QueryTool) fail(resp protocol.QueryResponse, reason string, exitCode int) protocol.QueryResponse {
	resp.Status = protocol.StatusError
	resp.Reason = reason
	resp.ExitCode = exitCode
	metrics.RunsTotal.WithLabelValues(metrics.StatusError).Inc()
	if t.Logger != nil {
		t.Logger.Error("lasquery failed", "correlation_id", resp.CorrelationID, "reason", reason, "exit_code", exitCode)
	}
	return resp
}

func (t *QueryTool) options(in QueryInput) lastools.Options {
	opts := t.Defaults
	if in.Verbose != nil {
		opts.Verbose = *in.Verbose
	}
	if in.GUI != nil {
		opts.GUI = *in.GUI
	}
	if in.Additional != nil {
		opts.Additional = *in.Additional
	}
	return opts
}

func timeoutMessage(value string) string {
	if strings.TrimSpace(value) == "" {
		return "lasview timed out"
	}
	return value
}
