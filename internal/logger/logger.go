// Package logger provides file-backed diagnostics. The TUI owns stdout, so
// all logging goes to ~/.healthguru/logs/healthguru.log.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.Logger = zap.NewNop()
	opened bool
)

// Init opens the log file and replaces the no-op logger. Safe to call more
// than once; later calls only adjust the level.
func Init(verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	if opened {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	logDir := filepath.Join(home, ".healthguru", "logs")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{filepath.Join(logDir, "healthguru.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	logger = l
	opened = true
	return nil
}

// L returns the current logger.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// WithRequestID returns a logger tagged with a fresh request id, so the
// lifecycle of one submission can be followed through the log.
func WithRequestID() *zap.Logger {
	return L().With(zap.String("request_id", uuid.NewString()))
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = L().Sync()
}
