package logging

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	assert.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	level, err = ParseLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `invalid level "loud"`)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := New(&buf, "info")
	assert.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("wrote month", zap.String("month", "2024-03"))
	assert.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "wrote month")
	assert.Contains(t, out, `"month": "2024-03"`)

	buf.Reset()
	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
