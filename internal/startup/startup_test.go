package startup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
)

func TestRunHooks(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	hooks := []dsl.HookConfig{
		{Command: ""},
		{Command: "sh", Args: []string{"-c", "echo ready > " + marker}},
	}
	require.NoError(t, Run(context.Background(), hooks, nil))

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "ready\n", string(data))
}

func TestRunHookFailureStops(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	hooks := []dsl.HookConfig{
		{Command: "exit 3"},
		{Command: "touch " + marker},
	}
	err := Run(context.Background(), hooks, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup hook 0 failed")
	assert.NoFileExists(t, marker)
}

func TestRunHookTimeout(t *testing.T) {
	hooks := []dsl.HookConfig{{Command: "sleep", Args: []string{"5"}, Timeout: "50ms"}}
	require.Error(t, Run(context.Background(), hooks, nil))
}

func TestRunShellHookTimeoutStopsChildren(t *testing.T) {
	hooks := []dsl.HookConfig{{Command: "sleep 3; echo done", Timeout: "100ms"}}

	start := time.Now()
	require.Error(t, Run(context.Background(), hooks, nil))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCheckExecutable(t *testing.T) {
	dir := t.TempDir()
	toolbox := lastools.Toolbox{Folder: dir}

	require.Error(t, CheckExecutable(toolbox))
	assert.False(t, Preflight(toolbox, nil))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "lasview"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, CheckExecutable(toolbox))
	assert.True(t, Preflight(toolbox, nil))

	wine := lastools.Toolbox{Folder: dir, WineFolder: "/opt/wine"}
	require.Error(t, CheckExecutable(wine), "wine toolbox looks for lasview.exe")
}
