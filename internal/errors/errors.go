// Package errors provides a lightweight structured error type (CompatError)
// for category-based classification in the hook chain and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a compat-tester error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryBuild ErrorCategory = "build"
	CategorySCM   ErrorCategory = "scm"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the component's chain
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// CompatError is a structured error with category, severity, and context
type CompatError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for CompatError
type ContextFields map[string]any

// Error implements the error interface
func (e *CompatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *CompatError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *CompatError) WithContext(key string, value any) *CompatError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new CompatError
func New(category ErrorCategory, severity ErrorSeverity, message string) *CompatError {
	return &CompatError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new CompatError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *CompatError {
	return &CompatError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ce, ok := err.(*CompatError); ok {
		return ce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a CompatError
func GetCategory(err error) ErrorCategory {
	if ce, ok := err.(*CompatError); ok {
		return ce.Category
	}
	return CategoryInternal
}

// IsFatal reports whether an error carries fatal severity. Non-CompatError
// values are treated as fatal, matching the chain runner's abort semantics.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CompatError); ok {
		return ce.Severity == SeverityFatal
	}
	return true
}
