package core

import (
	"fmt"
)

// AnalysisError represents a structured error with category and details.
// The analysis engine itself degrades instead of failing; these errors
// surface only at the boundaries (ingestion, query, config).
type AnalysisError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: element_not_found, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy of the error with the given cause.
func (e *AnalysisError) WithCause(cause error) *AnalysisError {
	return &AnalysisError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *AnalysisError) WithMessage(msg string) *AnalysisError {
	return &AnalysisError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *AnalysisError) WithDetails(details map[string]interface{}) *AnalysisError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AnalysisError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Input errors
	ErrInvalidInput = &AnalysisError{
		Category: ErrCategoryInput,
		Code:     "invalid_input",
		Message:  "element collection is nil or malformed",
	}
	ErrEmptyDump = &AnalysisError{
		Category: ErrCategoryInput,
		Code:     "empty_dump",
		Message:  "dump contains no hierarchy element",
	}

	// Geometry errors
	ErrUnparsableBounds = &AnalysisError{
		Category: ErrCategoryGeometry,
		Code:     "unparsable_bounds",
		Message:  "bounds string failed to normalize",
	}

	// Query errors
	ErrElementNotFound = &AnalysisError{
		Category: ErrCategoryQuery,
		Code:     "element_not_found",
		Message:  "element not present in hierarchy",
	}
	ErrEmptyHierarchy = &AnalysisError{
		Category: ErrCategoryQuery,
		Code:     "empty_hierarchy",
		Message:  "hierarchy has no nodes",
	}

	// Config errors
	ErrInvalidConfig = &AnalysisError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrInvalidFilter = &AnalysisError{
		Category: ErrCategoryConfig,
		Code:     "invalid_filter",
		Message:  "filter expression failed to compile",
	}
)

// NewAnalysisError creates a new AnalysisError with the given parameters.
func NewAnalysisError(category ErrorCategory, code, message string) *AnalysisError {
	return &AnalysisError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
