package tools

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunnerSuccess(t *testing.T) {
	r := NewRunner(testLogger(), time.Minute)
	err := r.Run(context.Background(), "test", "sh", []string{"-c", "true"})
	require.NoError(t, err)
}

func TestRunnerCapturesStderr(t *testing.T) {
	r := NewRunner(testLogger(), time.Minute)
	err := r.Run(context.Background(), "test", "sh", []string{"-c", "echo boom >&2; exit 3"})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "test", toolErr.Tool)
	assert.Equal(t, "boom", toolErr.Stderr)
}

func TestRunnerTimeout(t *testing.T) {
	r := NewRunner(testLogger(), 50*time.Millisecond)
	err := r.Run(context.Background(), "test", "sh", []string{"-c", "sleep 5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestRunnerMissingBinary(t *testing.T) {
	r := NewRunner(testLogger(), time.Minute)
	err := r.Run(context.Background(), "test", "definitely-not-a-binary-4a1b", nil)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
}

func TestBinaryEnvOverride(t *testing.T) {
	original := os.Getenv("FILEMILL_TEST_BIN")
	defer func() {
		if original == "" {
			_ = os.Unsetenv("FILEMILL_TEST_BIN")
		} else {
			_ = os.Setenv("FILEMILL_TEST_BIN", original)
		}
	}()

	_ = os.Unsetenv("FILEMILL_TEST_BIN")
	assert.Equal(t, "fallback", Binary("FILEMILL_TEST_BIN", "fallback"))

	_ = os.Setenv("FILEMILL_TEST_BIN", "/opt/custom/bin")
	assert.Equal(t, "/opt/custom/bin", Binary("FILEMILL_TEST_BIN", "fallback"))
}

func TestExtraArgs(t *testing.T) {
	original := os.Getenv("FILEMILL_TEST_ARGS")
	defer func() {
		if original == "" {
			_ = os.Unsetenv("FILEMILL_TEST_ARGS")
		} else {
			_ = os.Setenv("FILEMILL_TEST_ARGS", original)
		}
	}()

	_ = os.Unsetenv("FILEMILL_TEST_ARGS")
	assert.Nil(t, ExtraArgs("FILEMILL_TEST_ARGS"))

	_ = os.Setenv("FILEMILL_TEST_ARGS", `--lang "en GB" -O2`)
	assert.Equal(t, []string{"--lang", "en GB", "-O2"}, ExtraArgs("FILEMILL_TEST_ARGS"))

	// Unterminated quote: malformed values are dropped, not propagated.
	_ = os.Setenv("FILEMILL_TEST_ARGS", `--lang "en`)
	assert.Nil(t, ExtraArgs("FILEMILL_TEST_ARGS"))
}

func TestRequireOutput(t *testing.T) {
	dir := t.TempDir()

	err := requireOutput("test", filepath.Join(dir, "missing.pdf"))
	assert.True(t, errors.Is(err, ErrNoOutput))

	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	err = requireOutput("test", empty)
	assert.True(t, errors.Is(err, ErrNoOutput))

	full := filepath.Join(dir, "full.pdf")
	require.NoError(t, os.WriteFile(full, []byte("%PDF-1.7"), 0o644))
	assert.NoError(t, requireOutput("test", full))
}
