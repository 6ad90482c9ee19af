package conf

import (
	"fmt"
	"strings"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return "invalid settings: " + strings.Join(ve.Errors, "; ")
}

// ValidateSettings validates the entire Settings struct. All problems are
// collected into one configuration error.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	ve.Errors = append(ve.Errors, validateRosterSettings(settings)...)
	ve.Errors = append(ve.Errors, validateAnalysisSettings(settings)...)
	ve.Errors = append(ve.Errors, validateVisionSettings(settings)...)
	ve.Errors = append(ve.Errors, validateLoggingSettings(settings)...)
	ve.Errors = append(ve.Errors, validateTelemetrySettings(settings)...)

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("problems", len(ve.Errors)).
			Build()
	}
	return nil
}

func validateRosterSettings(s *Settings) []string {
	var errs []string
	if s.Roster.IDColumn < 0 {
		errs = append(errs, fmt.Sprintf("roster.idcolumn must be non-negative, got %d", s.Roster.IDColumn))
	}
	if s.Roster.GroupColumn < 0 {
		errs = append(errs, fmt.Sprintf("roster.groupcolumn must be non-negative, got %d", s.Roster.GroupColumn))
	}
	if s.Roster.IDColumn == s.Roster.GroupColumn {
		errs = append(errs, fmt.Sprintf("roster.idcolumn and roster.groupcolumn must differ, both are %d", s.Roster.IDColumn))
	}
	if s.Roster.IDPrefixLength < 0 {
		errs = append(errs, fmt.Sprintf("roster.idprefixlength must be non-negative, got %d", s.Roster.IDPrefixLength))
	}
	return errs
}

func validateAnalysisSettings(s *Settings) []string {
	var errs []string
	if s.Analysis.MinSupport < 1 {
		errs = append(errs, fmt.Sprintf("analysis.minsupport must be at least 1, got %d", s.Analysis.MinSupport))
	}
	if s.Analysis.TopN < 1 {
		errs = append(errs, fmt.Sprintf("analysis.topn must be at least 1, got %d", s.Analysis.TopN))
	}
	return errs
}

func validateVisionSettings(s *Settings) []string {
	var errs []string
	if s.Vision.MaxResults < 1 {
		errs = append(errs, fmt.Sprintf("vision.maxresults must be at least 1, got %d", s.Vision.MaxResults))
	}
	if s.Vision.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Sprintf("vision.requestspersecond must be positive, got %g", s.Vision.RequestsPerSecond))
	}
	if s.Vision.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("vision.timeout must not be negative, got %s", s.Vision.Timeout))
	}
	if s.Vision.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("vision.cachettl must not be negative, got %s", s.Vision.CacheTTL))
	}
	return errs
}

func validateLoggingSettings(s *Settings) []string {
	if _, ok := logger.ParseLevel(s.Logging.Level); !ok {
		return []string{fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", s.Logging.Level)}
	}
	return nil
}

func validateTelemetrySettings(s *Settings) []string {
	if s.Telemetry.Enabled && s.Telemetry.DSN == "" {
		return []string{"telemetry.dsn is required when telemetry is enabled"}
	}
	return nil
}
