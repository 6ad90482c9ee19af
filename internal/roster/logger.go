package roster

import "github.com/tphakala/labelgap/internal/logger"

// GetLogger returns the roster package logger scoped to the roster module.
func GetLogger() logger.Logger {
	return logger.Global().Module("roster")
}
