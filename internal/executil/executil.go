package executil

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

const maxLineSize = 1 << 20

// WaitDelay bounds how long Run waits for output pipes after the process was
// killed, in case a descendant escaped the process group and still holds them.
const WaitDelay = 2 * time.Second

// Progress receives the console output of a running process line by line.
type Progress interface {
	// ConsoleInfo is called once per output line, without the trailing newline.
	ConsoleInfo(line string)
}

// ProgressFunc adapts a plain function to Progress.
type ProgressFunc func(line string)

// ConsoleInfo calls f(line).
func (f ProgressFunc) ConsoleInfo(line string) {
	f(line)
}

// Result is the outcome of a finished process.
type Result struct {
	// Output is the combined stdout and stderr.
	Output string
	// ExitCode is the process exit code, -1 if it never ran to completion.
	ExitCode int
}

// Runner executes argv lists as subprocesses.
type Runner struct {
	// Launcher is prepended to every argv (for example a wine binary).
	Launcher []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env adds environment variables on top of os.Environ.
	Env map[string]string
}

// Command builds an exec.Cmd for argv without starting it.
func (r Runner) Command(ctx context.Context, argv []string) (*exec.Cmd, error) {
	full := make([]string, 0, len(r.Launcher)+len(argv))
	full = append(full, r.Launcher...)
	full = append(full, argv...)
	if len(full) == 0 || strings.TrimSpace(full[0]) == "" {
		return nil, errors.New("command is empty")
	}

	cmd := exec.CommandContext(ctx, full[0], full[1:]...)
	killProcessGroup(cmd)
	cmd.WaitDelay = WaitDelay
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()
	keys := make([]string, 0, len(r.Env))
	for key := range r.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, r.Env[key]))
	}
	return cmd, nil
}

// Run executes argv and blocks until it exits. Stdout and stderr are merged,
// streamed to progress (which may be nil) and captured in the result.
// A non-zero exit returns the captured result together with the *exec.ExitError.
func (r Runner) Run(ctx context.Context, argv []string, progress Progress) (Result, error) {
	cmd, err := r.Command(ctx, argv)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return Result{ExitCode: -1}, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		waitErr <- err
	}()

	var output strings.Builder
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		output.WriteString(line)
		output.WriteByte('\n')
		if progress != nil {
			progress.ConsoleInfo(line)
		}
	}
	if scanner.Err() != nil {
		// keep the pipe drained so Wait can return
		_, _ = io.Copy(io.Discard, pr)
	}

	err = <-waitErr
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	return Result{Output: output.String(), ExitCode: exitCode}, err
}

// RunCommand executes a hook command and returns output, exit code, and error.
// Without args the command is run through bash -c.
func RunCommand(ctx context.Context, command string, args []string, env map[string]string) (string, int, error) {
	argv := append([]string{command}, args...)
	if len(args) == 0 {
		argv = []string{"bash", "-c", command}
	}
	res, err := Runner{Env: env}.Run(ctx, argv, nil)
	return res.Output, res.ExitCode, err
}
