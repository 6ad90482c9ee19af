package analysis

import "github.com/tphakala/labelgap/internal/logger"

const component = "analysis"

// GetLogger returns the analysis package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(component)
}
