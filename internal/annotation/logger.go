package annotation

import "github.com/tphakala/labelgap/internal/logger"

// GetLogger returns the annotation package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("annotation")
}
