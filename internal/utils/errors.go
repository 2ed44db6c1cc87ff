package utils

import "fmt"

// UioError represents a structured uio error.
type UioError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *UioError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// WrapError creates a contextual error.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &UioError{
		Context: context,
		Cause:   cause,
	}
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *UioError) Unwrap() error {
	return e.Cause
}
