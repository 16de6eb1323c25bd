package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// CaptureLogOutput runs testFunc with the logger writing to a buffer at logLevel
// and returns what was logged. Output and level are restored afterwards, and a
// panic in testFunc is returned as an error.
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    log.Info("Analysis finished")
//	})
//	require.NoError(t, err)
//	assert.Contains(t, output, "Analysis finished")
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	err := runRecovering(testFunc)
	return logBuf.String(), err
}

// CaptureJSONLogs is CaptureLogOutput with LOG_FORMAT forced to json. Besides the
// raw output it returns every line decoded as a JSON object.
func CaptureJSONLogs(logLevel log.Level, testFunc func()) (string, []map[string]interface{}, error) {
	originalFormat, hadFormat := os.LookupEnv("LOG_FORMAT")
	if err := os.Setenv("LOG_FORMAT", "json"); err != nil {
		return "", nil, fmt.Errorf("failed to set LOG_FORMAT=json: %w", err)
	}
	defer func() {
		if hadFormat {
			_ = os.Setenv("LOG_FORMAT", originalFormat) //nolint:errcheck // best effort in test helper
		} else {
			_ = os.Unsetenv("LOG_FORMAT") //nolint:errcheck // best effort in test helper
		}
	}()

	output, err := CaptureLogOutput(logLevel, testFunc)
	if err != nil {
		return output, nil, err
	}
	entries, err := ParseJSONLogs(output)
	return output, entries, err
}

// ParseJSONLogs decodes one JSON object per non-empty line of output.
func ParseJSONLogs(output string) ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	for i, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return entries, fmt.Errorf("failed to unmarshal log line %d as JSON: %w\nLine content: %s", i+1, err, line)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AssertLogContainsJSON fails the test unless some entry contains every key/value
// of expected.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, expected) {
			return
		}
	}
	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s", prettyJSON(expected), prettyJSON(logs))
}

// AssertLogDoesNotContainJSON fails the test if some entry contains every
// key/value of unexpected.
func AssertLogDoesNotContainJSON(t *testing.T, logs []map[string]interface{}, unexpected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, unexpected) {
			assert.Fail(t, "Unexpected log entry found",
				"Found log entry:\n%s\n\nUnexpected log containing:\n%s", prettyJSON(entry), prettyJSON(unexpected))
			return
		}
	}
}

// containsAll compares top-level keys only. JSON numbers decode as float64, so
// int expectations are converted before comparing.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			return false
		}
		if f, isFloat := got.(float64); isFloat {
			switch w := want.(type) {
			case int:
				want = float64(w)
			case int64:
				want = float64(w)
			}
			if f != want {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func prettyJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func runRecovering(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during log capture: %v", r)
		}
	}()
	fn()
	return nil
}
