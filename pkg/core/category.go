package core

// ErrorCategory classifies analysis errors for reporting.
type ErrorCategory int

const (
	ErrCategoryNone     ErrorCategory = iota // No error
	ErrCategoryInput                         // Invalid or missing input collection
	ErrCategoryGeometry                      // Bounds failed to normalize
	ErrCategoryQuery                         // Discovery query against unknown element
	ErrCategoryConfig                        // Invalid configuration
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryInput:
		return "input"
	case ErrCategoryGeometry:
		return "geometry"
	case ErrCategoryQuery:
		return "query"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
