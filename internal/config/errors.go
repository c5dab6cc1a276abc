package config

import (
	"fmt"
	"strings"
)

// ConfigErrorType classifies configuration failures.
type ConfigErrorType int

const (
	// ConfigNotFound means the configuration file does not exist.
	ConfigNotFound ConfigErrorType = iota
	// ConfigInvalid means the file could not be read or decoded.
	ConfigInvalid
	// ConfigUnsupportedFormat means the file extension is neither JSON nor YAML.
	ConfigUnsupportedFormat
	// ConfigValidationFailed means a decoded value is out of range or points
	// at an unusable directory.
	ConfigValidationFailed
)

// String returns a short name for the error type.
func (t ConfigErrorType) String() string {
	switch t {
	case ConfigNotFound:
		return "not found"
	case ConfigInvalid:
		return "invalid"
	case ConfigUnsupportedFormat:
		return "unsupported format"
	case ConfigValidationFailed:
		return "validation failed"
	default:
		return "unknown"
	}
}

// ConfigError is returned by loading and validation.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	// File is the configuration file, empty for values that came from
	// defaults or flags.
	File string
	// Field is the dotted key of the offending value, e.g. "from.liquid".
	Field string
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.File != "" {
		fmt.Fprintf(&b, " in %s", e.File)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " [%s]", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(typ ConfigErrorType, file, message string) *ConfigError {
	return &ConfigError{Type: typ, File: file, Message: message}
}

// NewConfigErrorWithField creates a ConfigError for one field.
func NewConfigErrorWithField(typ ConfigErrorType, file, field, message string) *ConfigError {
	return &ConfigError{Type: typ, File: file, Field: field, Message: message}
}

// NewConfigErrorWithCause creates a ConfigError wrapping cause.
func NewConfigErrorWithCause(typ ConfigErrorType, file, message string, cause error) *ConfigError {
	return &ConfigError{Type: typ, File: file, Message: message, Cause: cause}
}
