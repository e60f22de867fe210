package runtime

import (
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/lasquery-mcp-server/internal/audit"
	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/limits"
	"github.com/codex-k8s/lasquery-mcp-server/internal/project"
	"github.com/codex-k8s/lasquery-mcp-server/internal/security"
)

// ToolName is the MCP tool name of the lasquery action.
const ToolName = "lasquery"

// Builder constructs an MCP server from the DSL config.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records run events.
	Audit audit.Logger
	// Runner overrides the subprocess runner built from the config.
	Runner lastools.Runner
}

// Build creates an MCP server exposing the lasquery tool.
func (b Builder) Build(cfg *dsl.Config) (*mcp.Server, error) {
	tool, err := b.QueryTool(cfg)
	if err != nil {
		return nil, err
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Title:       cfg.Query.Title,
		Description: cfg.Query.Description,
		Annotations: &mcp.ToolAnnotations{
			Title:          cfg.Query.Title,
			IdempotentHint: true,
		},
	}, tool.Handle)
	return server, nil
}

// QueryTool wires the lasquery action from the config.
func (b Builder) QueryTool(cfg *dsl.Config) (*QueryTool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	toolbox := cfg.LAStools.Toolbox()

	var layers lastools.LayerSource = lastools.StaticSource(cfg.Project.Layers)
	if cfg.Project.File != "" {
		layers = project.File{Path: cfg.Project.File}
	}

	runner := b.Runner
	if runner == nil {
		runner = executil.Runner{
			Launcher: toolbox.Launcher(),
			Dir:      cfg.LAStools.WorkDir,
			Env:      cfg.LAStools.Env,
		}
	}

	if b.Logger != nil {
		b.Logger.Info("lasquery tool configured",
			"lasview", toolbox.Executable(lastools.ToolLasview),
			"wine", toolbox.WineFolder,
			"work_dir", cfg.LAStools.WorkDir,
			"env", security.RedactEnv(cfg.LAStools.Env),
		)
	}

	return &QueryTool{
		Query: lastools.Query{
			Builder: lastools.Builder{
				Toolbox:   toolbox,
				Layers:    layers,
				VectorExt: cfg.LAStools.VectorExt,
			},
			Runner: runner,
			Logger: b.Logger,
			Audit:  b.Audit,
		},
		Defaults:       cfg.Query.Defaults,
		Guard:          limits.New(cfg.Query.Limits.MaxTotal, cfg.Query.Limits.RatePerMinute),
		Timeout:        cfg.Query.RunTimeout(),
		TimeoutMessage: cfg.Query.TimeoutMessage,
		Logger:         b.Logger,
		Audit:          b.Audit,
	}, nil
}
