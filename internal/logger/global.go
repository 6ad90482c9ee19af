package logger

import (
	"io"
	"sync"
	"time"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// SetGlobal installs the process-wide logger used by package GetLogger helpers.
func SetGlobal(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Global returns the process-wide logger. Before SetGlobal is called it
// returns a logger that discards everything below error level, so
// packages used as libraries stay quiet.
func Global() Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}
	return NewSlogLogger(io.Discard, LogLevelError, time.UTC)
}
