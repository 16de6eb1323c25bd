package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas-albers-lz4/imgtype/pkg/log"
)

func TestCaptureLogging(t *testing.T) {
	restoreAndGetOutput := CaptureLogging()
	log.Warn("captured warning")
	output := restoreAndGetOutput()
	assert.Contains(t, output, "captured warning")
}

func TestSuppressLogging(t *testing.T) {
	var buf bytes.Buffer
	restoreOuter := log.SetOutput(&buf)
	defer restoreOuter()

	restore := SuppressLogging()
	log.Warn("hidden warning")
	restore()
	log.Warn("visible warning")

	assert.NotContains(t, buf.String(), "hidden warning")
	assert.Contains(t, buf.String(), "visible warning")
}

func TestUseTestLogger(t *testing.T) {
	UseTestLogger(t)
	log.Info("only printed when the test fails")
}
