package startup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/security"
)

// Run executes configured startup hooks sequentially.
func Run(ctx context.Context, hooks []dsl.HookConfig, logger *slog.Logger) error {
	for idx, hook := range hooks {
		if strings.TrimSpace(hook.Command) == "" {
			continue
		}
		if err := runHook(ctx, idx, hook, logger); err != nil {
			return err
		}
	}
	return nil
}

func runHook(ctx context.Context, idx int, hook dsl.HookConfig, logger *slog.Logger) error {
	hookCtx := ctx
	if timeout := hook.HookTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		hookCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if logger != nil {
		logger.Info("running startup hook", "index", idx, "command", hook.Command, "env", security.RedactEnv(hook.Env))
	}

	output, exitCode, err := executil.RunCommand(hookCtx, hook.Command, hook.Args, hook.Env)
	output = strings.TrimSpace(output)
	if err != nil {
		if logger != nil && output != "" {
			logger.Error("startup hook failed", "index", idx, "exit_code", exitCode, "output", output)
		}
		return fmt.Errorf("startup hook %d failed: %w", idx, err)
	}
	if logger != nil && output != "" {
		logger.Info("startup hook output", "index", idx, "output", output)
	}
	return nil
}

// CheckExecutable reports whether the lasview executable of toolbox exists.
func CheckExecutable(toolbox lastools.Toolbox) error {
	path := toolbox.Executable(lastools.ToolLasview)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("lasview not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("lasview path %s is a directory", path)
	}
	return nil
}

// Preflight logs a warning when the lasview executable is missing. The server
// still starts; runs fail through the process runner until it is installed.
func Preflight(toolbox lastools.Toolbox, logger *slog.Logger) bool {
	if err := CheckExecutable(toolbox); err != nil {
		if logger != nil {
			logger.Warn("LAStools preflight failed", "folder", toolbox.Folder, "error", err)
		}
		return false
	}
	return true
}
