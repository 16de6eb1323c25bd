package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgtype/pkg/testutil"
)

// executeCommand runs the CLI with args against fs and returns stdout and stderr.
func executeCommand(t *testing.T, fs afero.Fs, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	testutil.UseTestLogger(t)
	restore := SetFs(fs)
	defer restore()

	root := newRootCmd()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// requireExitCode asserts that err carries the given exit code.
func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	got, ok := exitcodes.IsExitCodeError(err)
	require.True(t, ok, "expected an ExitCodeError, got %v", err)
	require.Equal(t, code, got, "unexpected exit code for error: %v", err)
}
