package parser

import "fmt"

// ParseErrorType represents the type of parsing error.
type ParseErrorType int

const (
	// MissingReference indicates a schema directive without a quoted reference path.
	MissingReference ParseErrorType = iota
)

// ParseError represents a directive parsing error with context.
type ParseError struct {
	// Type is the error type.
	Type ParseErrorType
	// Message is the error message.
	Message string
	// File is the file path where the error occurred.
	File string
	// Directive is the problematic directive text.
	Directive string
	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s (directive: %s)", e.File, e.Message, e.Directive)
	}
	if e.Directive != "" {
		return fmt.Sprintf("%s (directive: %s)", e.Message, e.Directive)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// newParseErrorWithDirective creates a ParseError with directive context.
func newParseErrorWithDirective(typ ParseErrorType, message, directive string) *ParseError {
	return &ParseError{
		Type:      typ,
		Message:   message,
		Directive: directive,
	}
}
