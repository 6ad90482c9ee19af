package catalog

import "github.com/tphakala/labelgap/internal/logger"

// GetLogger returns the catalog package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("catalog")
}
