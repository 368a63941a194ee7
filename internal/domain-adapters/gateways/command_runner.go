// Package gateways implements adapters for external tools and services.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// CommandRunner executes external tools with captured output.
type CommandRunner struct {
	defaultTimeout time.Duration
}

// NewCommandRunner creates a new command runner
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		defaultTimeout: 30 * time.Minute,
	}
}

// RunConfig contains configuration for executing one external command.
type RunConfig struct {
	Path        string // executable to invoke
	Args        []string
	WorkingDir  string
	Env         map[string]string
	Timeout     time.Duration
	Description string
}

// RunResult contains the result of command execution
type RunResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

// Run executes a command with the given configuration. The command's stdout and
// stderr are captured verbatim so failures can surface the tool's own diagnostics.
func (r *CommandRunner) Run(ctx context.Context, config RunConfig) *RunResult {
	startTime := time.Now()
	result := &RunResult{}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = r.defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: tool invocation is intentional and controlled by the build profile
	cmd := exec.CommandContext(runCtx, config.Path, config.Args...)

	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}

	env := os.Environ()
	for key, value := range config.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if config.Description != "" {
		fmt.Fprintf(os.Stderr, "Executing: %s\n", config.Description)
	}

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Err = err
		var exitErr *exec.ExitError
		//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else if runCtx.Err() == context.DeadlineExceeded {
			result.Err = fmt.Errorf("command timeout after %v", timeout)
			result.ExitCode = -1
		} else {
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}
