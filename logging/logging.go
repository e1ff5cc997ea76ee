// Package logging builds the zap logger shared by the commands and the web
// view. Logs go to stderr so they never mix with command output.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps interactive sessions quiet.
const DefaultLevel = "warn"

// ParseLevel parses a zap level name. An empty name selects DefaultLevel.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultLevel
	}
	var level zapcore.Level
	if err := level.Set(name); err != nil {
		return level, fmt.Errorf("invalid level %q: %w", name, err)
	}
	return level, nil
}

// New returns a console logger writing to w at the named level, along with
// the handle that adjusts the level at runtime.
func New(w io.Writer, name string) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := ParseLevel(name)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atomic := zap.NewAtomicLevelAt(level)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.CallerKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), atomic)
	return zap.New(core), atomic, nil
}
