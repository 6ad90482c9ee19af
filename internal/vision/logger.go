package vision

import "github.com/tphakala/labelgap/internal/logger"

// GetLogger returns the vision package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("vision")
}
