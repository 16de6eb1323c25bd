// Package integration runs the imgtype binary end to end against models on disk.
package integration

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// binaryPath is set by TestMain once the binary is built.
var binaryPath string

// TestHarness holds a scratch directory that the binary runs in.
type TestHarness struct {
	t       *testing.T
	tempDir string
	logger  *log.Logger
}

// NewTestHarness creates a harness with its own temporary working directory.
// The directory is removed when the test finishes.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()
	require.NotEmpty(t, binaryPath, "imgtype binary was not built")
	return &TestHarness{
		t:       t,
		tempDir: t.TempDir(),
		logger:  log.New(os.Stdout, fmt.Sprintf("[HARNESS %s] ", t.Name()), log.LstdFlags),
	}
}

// Path returns name resolved inside the harness directory.
func (h *TestHarness) Path(name string) string {
	return filepath.Join(h.tempDir, name)
}

// WriteFile writes content to name inside the harness directory.
func (h *TestHarness) WriteFile(name, content string) string {
	h.t.Helper()
	path := h.Path(name)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), fileutil.ReadWriteExecuteUserReadExecuteOthers))
	require.NoError(h.t, os.WriteFile(path, []byte(content), fileutil.ReadWriteUserPermission))
	return path
}

// LoadModel decodes the model stored at name inside the harness directory.
func (h *TestHarness) LoadModel(name string) *tadm.DeploymentModel {
	h.t.Helper()
	data, err := os.ReadFile(h.Path(name))
	require.NoError(h.t, err)
	m, err := tadm.Decode(data)
	require.NoError(h.t, err)
	return m
}

// Execute runs the binary and returns stdout, stderr and the exit code.
// HOME points at the harness directory so no user config file is picked up.
func (h *TestHarness) Execute(args ...string) (stdout, stderr string, exitCode int) {
	h.t.Helper()
	// #nosec G204 -- the binary and its arguments are controlled by the test.
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = h.tempDir
	cmd.Env = append(filteredEnv(), "HOME="+h.tempDir)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	h.logger.Printf("Command: imgtype %s", strings.Join(args, " "))
	err := cmd.Run()
	if errOut.Len() > 0 {
		h.logger.Printf("Stderr:\n%s", errOut.String())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		exitCode = 0
	case errors.As(err, &exitErr):
		exitCode = exitErr.ExitCode()
	default:
		h.t.Fatalf("failed to run imgtype %v: %v", args, err)
	}
	return out.String(), errOut.String(), exitCode
}

// AssertExitCode runs the binary and checks its exit code.
func (h *TestHarness) AssertExitCode(expected int, args ...string) (stdout, stderr string) {
	h.t.Helper()
	stdout, stderr, code := h.Execute(args...)
	assert.Equal(h.t, expected, code, "unexpected exit code\nArgs: %v\nStdout:\n%s\nStderr:\n%s", args, stdout, stderr)
	return stdout, stderr
}

// filteredEnv drops variables that would change the binary's configuration.
func filteredEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "IMGTYPE_") || strings.HasPrefix(kv, "LOG_FORMAT=") || strings.HasPrefix(kv, "HOME=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

// getProjectRoot finds the project root directory by searching upwards for go.mod.
func getProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("failed to find project root (go.mod) starting from %s", wd)
		}
		dir = parent
	}
}

// buildBinary compiles cmd/imgtype into binDir and returns the binary path.
func buildBinary(binDir string) (string, error) {
	rootDir, err := getProjectRoot()
	if err != nil {
		return "", err
	}
	binPath := filepath.Join(binDir, "imgtype")
	// #nosec G204 -- building the project's own binary.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/imgtype")
	cmd.Dir = rootDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("go build failed: %w\nOutput:\n%s", err, string(output))
	}
	return binPath, nil
}
