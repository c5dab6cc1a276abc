package resolver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ModuleLoadError reports a schema source that could not be loaded. Its message
// quotes the directive with a caret under the reference so the failure can be
// located without a stack trace.
type ModuleLoadError struct {
	// File is the template path relative to the source directory.
	File string
	// Directive is the opening tag of the schema directive.
	Directive string
	// Offset is the byte offset of the reference literal in Directive, or -1.
	Offset int
	// ModulePath is the resolved absolute path (or generator name).
	ModulePath string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ModuleLoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot load schema %s referenced from %s", e.ModulePath, e.File)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if e.Directive != "" {
		b.WriteString("\n\n  ")
		b.WriteString(e.Directive)
		b.WriteString("\n  ")
		b.WriteString(e.Caret())
	}
	return b.String()
}

// Caret returns a marker line pointing at the reference literal.
func (e *ModuleLoadError) Caret() string {
	off := e.Offset
	if off < 0 || off > len(e.Directive) {
		off = 0
	}
	return strings.Repeat(" ", off) + "^"
}

// Unwrap returns the underlying cause error.
func (e *ModuleLoadError) Unwrap() error {
	return e.Cause
}

// SchemaTypeError reports an effective schema that is not a mapping.
type SchemaTypeError struct {
	// File is the template path relative to the source directory.
	File string
	// ModulePath is the resolved schema path (or generator name).
	ModulePath string
	// Got describes the value that was produced.
	Got string
}

// Error implements the error interface.
func (e *SchemaTypeError) Error() string {
	return fmt.Sprintf("schema %s referenced from %s must resolve to an object, got %s",
		e.ModulePath, e.File, e.Got)
}

// describe names the JSON kind of v for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64, float32, int, int64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
