package report

import "github.com/tphakala/labelgap/internal/logger"

// GetLogger returns the report package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("report")
}
