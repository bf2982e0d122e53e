package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceFailure is the root of every loud failure on the extraction path.
	ErrServiceFailure = errors.New("ai service failure")

	// ErrNotConfigured is returned by the generator used when no API key is set.
	ErrNotConfigured = errors.New("ai service not configured: set an API key with 'invoicer key set'")

	// ErrEmptyPrompt rejects blank input before any request is sent.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// ServiceError wraps a transport or decoding failure from one gateway operation.
type ServiceError struct {
	Op  string // "extract" or "summarize"
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *ServiceError) Unwrap() []error {
	return []error{ErrServiceFailure, e.Err}
}
