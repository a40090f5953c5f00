// Package suite loads and validates parity suites: the list of labelled
// selectors and computed-style properties that drive capture and compare.
package suite

import "fmt"

// LoadError represents an error during file I/O or document parsing
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// InvalidError represents a suite that parsed but failed validation
type InvalidError struct {
	Message string
	Cause   error
}

func (e *InvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid suite: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid suite: %s", e.Message)
}

func (e *InvalidError) Unwrap() error {
	return e.Cause
}
