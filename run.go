// FILE: lixenwraith/cli/run.go
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// RunOptions adjusts how RunCommand starts a process
type RunOptions struct {
	Dir            string
	Env            map[string]string // added to the current environment
	Stdin          []byte
	CombinedOutput bool // stderr is interleaved into Stdout
}

// ExecutionResult holds the outcome of a finished process
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunCommand runs argv and captures its output.
// A non-zero exit status is reported in ExitCode, not as an error; errors mean the
// process could not be started or was cancelled through ctx.
func RunCommand(ctx context.Context, argv []string, opts RunOptions) (ExecutionResult, error) {
	if len(argv) == 0 {
		return ExecutionResult{}, errors.New("no command given")
	}

	executable := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if opts.Dir != "" {
		executable.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		environment := append([]string{}, os.Environ()...)
		for _, key := range sortedKeys(opts.Env) {
			environment = append(environment, fmt.Sprintf("%s=%s", key, opts.Env[key]))
		}
		executable.Env = environment
	}
	if len(opts.Stdin) > 0 {
		executable.Stdin = bytes.NewReader(opts.Stdin)
	}

	var stdout, stderr bytes.Buffer
	executable.Stdout = &stdout
	executable.Stderr = &stderr
	if opts.CombinedOutput {
		executable.Stderr = &stdout
	}

	runErr := executable.Run()
	if runErr != nil {
		exitErr := &exec.ExitError{}
		if errors.As(runErr, &exitErr) && ctx.Err() == nil {
			return ExecutionResult{
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, fmt.Errorf("failed to run %q: %w", strings.Join(argv, " "), runErr)
	}

	return ExecutionResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}

// RunCommand runs argv with the application logger recording the invocation.
func (a *App) RunCommand(ctx context.Context, argv []string, opts RunOptions) (ExecutionResult, error) {
	a.Log().Debug("running command", zap.Strings("argv", argv), zap.String("dir", opts.Dir))
	result, err := RunCommand(ctx, argv, opts)
	if err != nil {
		return result, err
	}
	a.Log().Debug("command finished", zap.Strings("argv", argv), zap.Int("exit_code", result.ExitCode))
	return result, nil
}
