// Package logger provides the process-wide sugared zap logger for the advisor.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Level names accepted by the log.level setting and the --log-level flag.
// Anything else falls back to debug.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Logger is a sugared zap logger whose level can be raised or lowered after startup.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

var (
	shared     *Logger
	sharedOnce sync.Once
)

// Get returns the process logger, building it at level on first use.
// Later calls return the same instance and ignore level; call SetLevel once
// configuration has been resolved.
func Get(level string) *Logger {
	sharedOnce.Do(func() {
		shared = newZapLogger(level)
	})
	return shared
}

// SetLevel switches a running logger to levelStr.
func (l *Logger) SetLevel(levelStr string) {
	l.level.SetLevel(toZapLevel(levelStr))
}

// Nop returns a logger that discards everything. The one-shot analyze command
// and tests use it where no log output is wanted.
func Nop() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		level:         zap.NewAtomicLevel(),
	}
}
