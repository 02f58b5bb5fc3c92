// Package hooks invokes the external puzzle-completion hook.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// waitDelay bounds how long Invoke waits for the hook's output streams
// after the process is gone or cancelled.
var waitDelay = 2 * time.Second

// Options configures a hook invocation.
type Options struct {
	Command   string
	Event     string
	City      string
	Pieces    int
	StatePath string
	WorkDir   string

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as
//
//	<command> <event> <city> <pieces> <state_path>
//
// The same values are exported as TODOPUZZLE_EVENT, TODOPUZZLE_CITY,
// TODOPUZZLE_PIECES and TODOPUZZLE_STATE. An empty command is a no-op.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.Event == "" {
		return Result{}, fmt.Errorf("hook event is empty")
	}

	if opts.StatePath != "" {
		info, err := os.Stat(opts.StatePath)
		if err != nil && !os.IsNotExist(err) {
			return Result{}, fmt.Errorf("stat state file: %w", err)
		}
		if err == nil && info.IsDir() {
			return Result{}, fmt.Errorf("state path is a directory: %s", opts.StatePath)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	pieces := strconv.Itoa(opts.Pieces)
	cmd := exec.CommandContext(ctx, opts.Command, opts.Event, opts.City, pieces, opts.StatePath)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"TODOPUZZLE_EVENT="+opts.Event,
		"TODOPUZZLE_CITY="+opts.City,
		"TODOPUZZLE_PIECES="+pieces,
		"TODOPUZZLE_STATE="+opts.StatePath,
	)
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	startGroup(cmd)
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
