package converter

import (
	"fmt"
	"net/http"
)

// ConversionError represents a conversion failure with detailed error info
type ConversionError struct {
	OriginalError error
	Path          string
	Hint          string
}

func (e *ConversionError) Error() string {
	msg := "conversion failed"
	if e.OriginalError != nil {
		msg += fmt.Sprintf(": %v", e.OriginalError)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (file: %s)", e.Path)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHint: %s", e.Hint)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.OriginalError
}

// FileNotFoundError represents a file not found error
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return fmt.Sprintf("path validation failed for %s: %s", e.Path, e.Reason)
}

// UnsupportedInputError is returned when no converter accepts an input
type UnsupportedInputError struct {
	Input string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input: %s", e.Input)
}

// HTTPError represents a non-200 response while fetching a document
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetching %s: %s", e.URL, http.StatusText(e.StatusCode))
}

// Retryable reports whether the server may answer differently later
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
