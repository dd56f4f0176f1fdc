// Package logging provides the shared zap logger. Components take child
// loggers via Named so log lines carry their subsystem.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the process logger. Verbose switches to development encoding
// with debug level; otherwise a production config at info level is used.
func Init(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	logger = built
	mu.Unlock()
	return nil
}

// L returns the process logger. Before Init it is a no-op logger, so
// library code can log unconditionally.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Named returns a child logger for a subsystem.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}
