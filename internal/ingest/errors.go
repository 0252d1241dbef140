package ingest

import (
	"fmt"
	"strings"
)

// ConversionError reports an input that could not be turned into text
type ConversionError struct {
	Input string
	Err   error
	Hint  string
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot read document %q", shorten(e.Input))
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, " (%s)", e.Hint)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ValidationError reports a bad document type or an empty document
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SecurityError reports an input path that was refused
type SecurityError struct {
	Type    string // "path_traversal" or "null_byte"
	Details string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("input rejected (%s): %s", e.Type, e.Details)
}

// DegradedError describes a conversion that failed but was recovered by a
// fallback. It is reported on the result, never returned.
type DegradedError struct {
	Component string
	Err       error
	Fallback  string
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("%s failed, used %s: %v", e.Component, e.Fallback, e.Err)
}

func (e *DegradedError) Unwrap() error {
	return e.Err
}

// shorten keeps raw text inputs readable in error messages
func shorten(input string) string {
	const limit = 60
	input = strings.Join(strings.Fields(input), " ")
	if len(input) <= limit {
		return input
	}
	return input[:limit] + "..."
}
