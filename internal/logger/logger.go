package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Constants for logging levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environments the logger could be configured for
const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"
)

// Logger interface defines the logging contract
// Args are key-value pairs: logger.Info("check done", "valid", true)
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger

	// Flush buffered entries if any
	Sync() error
}

// New creates a logger for the environment
// Development logger writes human friendly console lines, production one writes JSON
func New(environment string, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch strings.ToLower(environment) {
	case EnvDevelopment:
		cfg = zap.NewDevelopmentConfig()
	case EnvProduction:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown environment %q", environment)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	// Skip zapLogger wrapper frame, so caller points to the real call site
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("error while building logger. Err: %w", err)
	}

	return &zapLogger{logger: l.Sugar()}, nil
}

// NewWithCore creates a logger on top of the zap core
// Useful in tests with go.uber.org/zap/zaptest/observer
func NewWithCore(core zapcore.Core) Logger {
	return &zapLogger{logger: zap.New(core, zap.AddCallerSkip(1)).Sugar()}
}

// NewNoOpLogger creates a logger that discards all log messages
func NewNoOpLogger() Logger {
	return &zapLogger{logger: zap.NewNop().Sugar()}
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case LevelDebug:
		return zapcore.DebugLevel, nil
	case LevelInfo:
		return zapcore.InfoLevel, nil
	case LevelWarn:
		return zapcore.WarnLevel, nil
	case LevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
