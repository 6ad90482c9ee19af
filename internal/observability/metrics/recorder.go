package metrics

import "github.com/tphakala/labelgap/internal/errors"

// Recorder defines a minimal interface for recording metrics, so stages can
// be tested without a registry.
type Recorder interface {
	// RecordOperation records an operation with its status.
	RecordOperation(operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records an error occurrence with its type.
	RecordError(operation, errorType string)
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordStage records a stage outcome on r: success with its duration, or
// an error with its category.
func RecordStage(r Recorder, stage string, seconds float64, err error) {
	if err != nil {
		r.RecordOperation(stage, StatusError)
		r.RecordError(stage, categorizeError(err))
		return
	}
	r.RecordOperation(stage, StatusSuccess)
	r.RecordDuration(stage, seconds)
}

// categorizeError maps an error to its category label.
func categorizeError(err error) string {
	if err == nil {
		return "none"
	}
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return string(ee.Category)
	}
	return string(errors.CategoryGeneric)
}

// AnalysisMetrics is the recorder used by pipeline stages.
var _ Recorder = (*AnalysisMetrics)(nil)
