package runtime

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
)

// sessionProgress forwards console lines as MCP progress notifications when
// the client asked for progress, and to the debug log otherwise.
type sessionProgress struct {
	ctx           context.Context
	session       *mcp.ServerSession
	token         any
	lines         int
	logger        *slog.Logger
	correlationID string
	echo          executil.Progress
}

func newSessionProgress(ctx context.Context, req *mcp.CallToolRequest, logger *slog.Logger, correlationID string, echo executil.Progress) *sessionProgress {
	p := &sessionProgress{ctx: ctx, logger: logger, correlationID: correlationID, echo: echo}
	if req != nil && req.Session != nil && req.Params != nil {
		p.session = req.Session
		p.token = req.Params.GetProgressToken()
	}
	return p
}

func (p *sessionProgress) ConsoleInfo(line string) {
	p.lines++
	if p.logger != nil {
		p.logger.Debug("LAStools console", "correlation_id", p.correlationID, "line", line)
	}
	if p.echo != nil {
		p.echo.ConsoleInfo(line)
	}
	if p.session == nil || p.token == nil {
		return
	}
	err := p.session.NotifyProgress(p.ctx, &mcp.ProgressNotificationParams{
		ProgressToken: p.token,
		Progress:      float64(p.lines),
		Message:       line,
	})
	if err != nil && p.logger != nil {
		p.logger.Debug("progress notification failed", "correlation_id", p.correlationID, "error", err)
	}
}
