package executil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRunStreamsCombinedOutput(t *testing.T) {
	script := writeScript(t, "echo first\necho second >&2\necho \"$@\"\n")

	var lines []string
	res, err := Runner{}.Run(context.Background(), []string{script, "-i", "a.laz"}, ProgressFunc(func(line string) {
		lines = append(lines, line)
	}))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, []string{"first", "second", "-i a.laz"}, lines)
	assert.Equal(t, "first\nsecond\n-i a.laz\n", res.Output)
}

func TestRunReportsExitCode(t *testing.T) {
	script := writeScript(t, "echo 'ERROR: cannot open a.laz'\nexit 3\n")

	res, err := Runner{}.Run(context.Background(), []string{script}, nil)
	require.Error(t, err)
	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "cannot open a.laz")
}

func TestRunMissingExecutable(t *testing.T) {
	res, err := Runner{}.Run(context.Background(), []string{filepath.Join(t.TempDir(), "bin", "lasview")}, nil)
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunLauncherAndEnv(t *testing.T) {
	launcher := writeScript(t, "echo \"launched $LASQUERY_TEST $*\"\n")

	r := Runner{Launcher: []string{launcher}, Env: map[string]string{"LASQUERY_TEST": "yes"}}
	res, err := r.Run(context.Background(), []string{"lasview.exe", "-v"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "launched yes lasview.exe -v\n", res.Output)
}

func TestRunEmptyCommand(t *testing.T) {
	_, err := Runner{}.Run(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestRunHonoursContext(t *testing.T) {
	script := writeScript(t, "exec sleep 5\n")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Runner{}.Run(ctx, []string{script}, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestRunCancelKillsDescendants(t *testing.T) {
	// sleep runs as a child of the script and keeps the output pipe open
	script := writeScript(t, "echo started\nsleep 3\necho done\n")
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := Runner{}.Run(ctx, []string{script}, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, "started\n", res.Output)
}

func TestRunCommandTimeoutStopsShell(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := RunCommand(ctx, "sleep 3; echo done", nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunCommandUsesShellWithoutArgs(t *testing.T) {
	out, code, err := RunCommand(context.Background(), "echo $HOOK_VALUE", nil, map[string]string{"HOOK_VALUE": "ready"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "ready\n", out)
}
