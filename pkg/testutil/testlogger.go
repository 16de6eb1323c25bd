package testutil

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// mutex serializes helpers that swap the global logger output.
var mutex sync.Mutex

// SuppressLogging discards all log output until the returned function is called.
func SuppressLogging() func() {
	mutex.Lock()
	defer mutex.Unlock()

	restoreLog := log.SetOutput(io.Discard)
	return func() {
		mutex.Lock()
		defer mutex.Unlock()
		restoreLog()
	}
}

// CaptureLogging buffers log output. The returned function restores the previous
// output and returns what was captured. Only pkg/log output is captured.
// Captures may nest as long as they are restored in reverse order.
func CaptureLogging() func() string {
	mutex.Lock()
	defer mutex.Unlock()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	return func() string {
		mutex.Lock()
		defer mutex.Unlock()
		restoreLog()
		return logBuf.String()
	}
}

// UseTestLogger buffers log output for the duration of t and prints it only if
// the test fails. In verbose runs logging is left untouched.
func UseTestLogger(t *testing.T) {
	t.Helper()
	if testing.Verbose() {
		return
	}
	restoreAndGetLogs := CaptureLogging()
	t.Cleanup(func() {
		captured := restoreAndGetLogs()
		if t.Failed() {
			t.Logf("Log output captured during test:\n%s", captured)
		}
	})
}
