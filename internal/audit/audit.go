package audit

import (
	"context"
	"log/slog"
)

// Event types recorded for a query run.
const (
	EventCall    = "query_call"
	EventCommand = "query_command"
	EventWarning = "query_warning"
	EventOK      = "query_ok"
	EventError   = "query_error"
	EventDenied  = "query_denied"
)

// Event represents an audit entry for a LAStools run.
type Event struct {
	// Type describes the event kind.
	Type string
	// Tool is the LAStools action name.
	Tool string
	// CorrelationID links related events.
	CorrelationID string
	// Command is the command line, when known.
	Command string
	// ExitCode is the process exit code for finished runs.
	ExitCode int
	// Reason provides additional context.
	Reason string
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(ctx context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.InfoContext(ctx, "audit",
		"type", event.Type,
		"tool", event.Tool,
		"correlation_id", event.CorrelationID,
		"command", event.Command,
		"exit_code", event.ExitCode,
		"reason", event.Reason,
	)
}
