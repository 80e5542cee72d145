// Package tools wraps the external command-line programs the gateway
// depends on. Each adapter exposes a path-in/path-or-error-out contract;
// callers never see the underlying command line.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

var (
	// ErrTimeout is returned when a tool exceeds the configured deadline.
	ErrTimeout = errors.New("tool timed out")

	// ErrNoOutput is returned when a tool exits successfully but the
	// expected output file is missing or empty.
	ErrNoOutput = errors.New("tool produced no output")
)

// ToolError carries the failing tool's name and captured stderr so the
// handler boundary can log something actionable.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Runner executes external binaries with a bounded timeout and stderr
// capture. Invocations are one-shot: no retries, no queueing.
type Runner struct {
	logger  *logrus.Logger
	timeout time.Duration
}

// NewRunner returns a Runner. A zero timeout falls back to two minutes;
// the bound is a deliberate robustness addition, the tools themselves run
// unattended for seconds to minutes.
func NewRunner(logger *logrus.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Run executes bin with args and waits for completion. env entries, if any,
// are appended to the current environment.
func (r *Runner) Run(ctx context.Context, tool, bin string, args []string, env ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.WithFields(logrus.Fields{
		"tool":     tool,
		"bin":      bin,
		"duration": time.Since(start).Round(time.Millisecond).String(),
		"success":  err == nil,
	}).Debug("external tool finished")

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &ToolError{Tool: tool, Stderr: trimStderr(stderr.String()), Err: ErrTimeout}
		}
		return &ToolError{Tool: tool, Stderr: trimStderr(stderr.String()), Err: err}
	}
	return nil
}

// requireOutput verifies the tool left a non-empty file behind.
func requireOutput(tool, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return &ToolError{Tool: tool, Err: ErrNoOutput}
	}
	return nil
}

// Binary resolves a tool binary, preferring the environment override.
func Binary(envVar, fallback string) string {
	if bin := os.Getenv(envVar); bin != "" {
		return bin
	}
	return fallback
}

// ExtraArgs parses additional arguments for a tool from the environment
// using shell word splitting. Malformed values are ignored.
func ExtraArgs(envVar string) []string {
	raw := os.Getenv(envVar)
	if raw == "" {
		return nil
	}
	args, err := shlex.Split(raw)
	if err != nil {
		return nil
	}
	return args
}

func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	// Keep error payloads log-sized; tools like LibreOffice can be chatty.
	const max = 2048
	if len(s) > max {
		s = s[:max]
	}
	return s
}
