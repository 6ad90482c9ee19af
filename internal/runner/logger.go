package runner

import "github.com/tphakala/labelgap/internal/logger"

const component = "runner"

// GetLogger returns the runner package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(component)
}
