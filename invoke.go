package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"
)

// invocationError reports an interpreter that could not be started at all.
// An interpreter that starts and then exits non-zero is not an error.
type invocationError struct {
	Path string
	Err  error
}

func (e *invocationError) Error() string {
	return fmt.Sprintf("launch interpreter %s: %v", e.Path, e.Err)
}

func (e *invocationError) Unwrap() error {
	return e.Err
}

// invocation is what one interpreter run produced.
type invocation struct {
	Stdout   string
	Stderr   string
	ExitCode int // -1 when killed by a signal
	TimedOut bool
	Elapsed  time.Duration
}

// interpreter launches the program under test once per source file.
type interpreter struct {
	Argv    []string // executable and leading arguments
	Env     []string // appended to the inherited environment
	Dir     string
	Timeout time.Duration // zero disables the limit
}

func newInterpreter(cfg *Config) *interpreter {
	var env []string
	for _, k := range slices.Sorted(maps.Keys(cfg.Env)) {
		env = append(env, k+"="+cfg.Env[k])
	}
	return &interpreter{
		Argv:    cfg.command(),
		Env:     env,
		Dir:     cfg.Dir,
		Timeout: cfg.Timeout,
	}
}

// run executes the interpreter with sourcePath as its only positional
// argument and waits for it to finish. Only a failure to start is returned
// as an error.
func (in *interpreter) run(ctx context.Context, sourcePath string) (*invocation, error) {
	if in.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}

	// The interpreter runs inside Dir, so hand it a path that survives that.
	if abs, err := filepath.Abs(sourcePath); err == nil {
		sourcePath = abs
	}
	args := append(append([]string{}, in.Argv[1:]...), sourcePath)
	cmd := exec.CommandContext(ctx, in.Argv[0], args...)
	cmd.Dir = in.Dir
	if len(in.Env) > 0 {
		cmd.Env = append(os.Environ(), in.Env...)
	}
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("invoking interpreter", "argv", cmd.Args, "dir", cmd.Dir)
	start := time.Now()
	err := cmd.Run()
	inv := &invocation{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
		inv.TimedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
	case cmd.ProcessState != nil:
		// Started and finished, but Wait reported a copy or WaitDelay problem.
		inv.ExitCode = cmd.ProcessState.ExitCode()
		inv.TimedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
	default:
		return nil, &invocationError{Path: in.Argv[0], Err: err}
	}
	return inv, nil
}
