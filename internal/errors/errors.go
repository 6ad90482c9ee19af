// Package errors provides centralized error handling with optional telemetry integration
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

// CategorizedError is an interface for errors that can specify their own category
type CategorizedError interface {
	error
	ErrorCategory() ErrorCategory
}

const (
	// CategoryNotFound marks a failed join: an identifier missing from the
	// roster or a label missing from the category catalog.
	CategoryNotFound ErrorCategory = "not-found"
	// CategoryConfiguration marks settings that make the run undefined,
	// such as a group with zero population.
	CategoryConfiguration ErrorCategory = "configuration"
	// CategoryFileParsing marks a source row missing expected fields.
	CategoryFileParsing ErrorCategory = "file-parsing"

	CategoryFileIO        ErrorCategory = "file-io"
	CategoryNetwork       ErrorCategory = "network"
	CategoryValidation    ErrorCategory = "validation"
	CategoryImageProvider ErrorCategory = "image-provider"
	CategoryCancellation  ErrorCategory = "cancellation"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when the component was not set by the caller.
const ComponentUnknown = "unknown"

// hasActiveReporting is flipped on when a telemetry reporter is installed,
// so Build can skip reporting work entirely otherwise.
var hasActiveReporting atomic.Bool

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	Component string         // Component where error occurred
	Category  ErrorCategory  // Error category for better grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
	reported  bool           // Whether telemetry has been sent
	mu        sync.RWMutex   // Mutex to protect concurrent access
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is implements error type checking
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// ErrorCategory implements CategorizedError
func (ee *EnhancedError) ErrorCategory() ErrorCategory {
	return ee.Category
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	if ee.Context == nil {
		return nil
	}

	contextCopy := make(map[string]any, len(ee.Context))
	maps.Copy(contextCopy, ee.Context)
	return contextCopy
}

// MarkReported marks this error as reported to telemetry
func (ee *EnhancedError) MarkReported() {
	ee.mu.Lock()
	defer ee.mu.Unlock()
	ee.reported = true
}

// IsReported returns whether this error has been reported
func (ee *EnhancedError) IsReported() bool {
	ee.mu.RLock()
	defer ee.mu.RUnlock()
	return ee.reported
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error with enhanced context
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new formatted error with enhanced context
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category for better grouping
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// FileContext adds the file name and, when known, the 1-based line number
func (eb *ErrorBuilder) FileContext(path string, line int) *ErrorBuilder {
	if path != "" {
		eb.Context("file", path)
	}
	if line > 0 {
		eb.Context("line", line)
	}
	return eb
}

// Build creates the EnhancedError and triggers optional telemetry reporting
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
	if ee.Component == "" {
		ee.Component = ComponentUnknown
	}
	if ee.Category == "" {
		ee.Category = detectCategory(eb.err)
	}

	if hasActiveReporting.Load() {
		reportToTelemetry(ee)
	}

	return ee
}

// detectCategory inherits the category of a wrapped categorized error and
// falls back to generic.
func detectCategory(err error) ErrorCategory {
	var catErr CategorizedError
	if stderrors.As(err, &catErr) {
		return catErr.ErrorCategory()
	}
	return CategoryGeneric
}

// Convenience functions for common error patterns

// Wrap wraps an existing error with enhanced context
func Wrap(err error) *ErrorBuilder {
	return New(err)
}

// LookupError reports a key missing from an expected mapping.
func LookupError(component, mapping, key string) *EnhancedError {
	return Newf("%s: %q not found in %s", component, key, mapping).
		Component(component).
		Category(CategoryNotFound).
		Context("mapping", mapping).
		Context("key", key).
		Build()
}

// ConfigurationError reports settings or inputs that leave the run undefined.
func ConfigurationError(component, format string, args ...any) *EnhancedError {
	return Newf(format, args...).
		Component(component).
		Category(CategoryConfiguration).
		Build()
}

// MalformedRowError reports a source row that lacks expected fields.
func MalformedRowError(component, path string, line int, format string, args ...any) *EnhancedError {
	msg := fmt.Sprintf(format, args...)
	where := path
	if where == "" {
		where = "input"
	}
	return Newf("%s: malformed row at %s:%d: %s", component, where, line, msg).
		Component(component).
		Category(CategoryFileParsing).
		FileContext(path, line).
		Build()
}

// FileError creates a file I/O error with appropriate context
func FileError(component string, err error, path string) *EnhancedError {
	return New(err).
		Component(component).
		Category(CategoryFileIO).
		FileContext(path, 0).
		Build()
}

// ValidationError creates a validation error
func ValidationError(message string) *EnhancedError {
	return New(NewStd(message)).
		Category(CategoryValidation).
		Build()
}

// Standard library passthrough functions
// These allow this package to be a drop-in replacement for the standard errors package

// NewStd creates a new standard error (passthrough to standard library)
func NewStd(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target (passthrough to standard library)
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target (passthrough to standard library)
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err (passthrough to standard library)
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors (passthrough to standard library)
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsCategory checks if an error is an EnhancedError with the specified category.
func IsCategory(err error, category ErrorCategory) bool {
	var enhancedErr *EnhancedError
	return As(err, &enhancedErr) && enhancedErr.Category == category
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return IsCategory(err, CategoryNotFound)
}

// IsConfiguration reports whether err is a configuration failure.
func IsConfiguration(err error) bool {
	return IsCategory(err, CategoryConfiguration)
}

// IsMalformed reports whether err is a malformed source row.
func IsMalformed(err error) bool {
	return IsCategory(err, CategoryFileParsing)
}

// Describe renders the category and context of an enhanced error on one
// line for console output.
func Describe(err error) string {
	var ee *EnhancedError
	if !As(err, &ee) {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", ee.Category, ee.Error())
	ctx := ee.GetContext()
	if len(ctx) == 0 {
		return b.String()
	}

	for _, k := range slices.Sorted(maps.Keys(ctx)) {
		fmt.Fprintf(&b, " %s=%v", k, ctx[k])
	}
	return b.String()
}

