package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where log output goes.
type Options struct {
	Path    string // JSON log file; empty disables the file core
	Profile string
	Level   string
	Console bool // also write human-readable output to stderr
}

// New creates a zap logger that writes JSON to the given log file path
// and optionally to stderr. The TUI must not enable Console since stderr
// shares the terminal with the screen. Profile name and PID are included
// as initial fields.
func New(opts Options) (*zap.Logger, error) {
	level := ParseLevel(opts.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level))
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.Fields(
			zap.String("profile", opts.Profile),
			zap.Int("pid", os.Getpid()),
		),
	)

	return logger, nil
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
