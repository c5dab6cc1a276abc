package model

import (
	"fmt"
	"sort"
)

// Well-known names used by the build.
const (
	// DefaultTemplateExtension is the extension of files processed by a batch.
	DefaultTemplateExtension = ".liquid"
	// TitlePlaceholder is replaced with each target name when a template is duplicated.
	TitlePlaceholder = "-{{title_section}}-"
	// GeneratorPrefix marks a schema reference that names a registered generator
	// instead of a file under the schema directory.
	GeneratorPrefix = "@"
)

// TemplateFile is a single template enumerated from the source directory.
type TemplateFile struct {
	// Path is the absolute path of the file.
	Path string
	// RelPath is the path relative to the source directory, slash separated.
	RelPath string
	// Content is the raw file content.
	Content string
}

// SchemaDirective is the reference and inline override extracted from a file.
type SchemaDirective struct {
	// ReferencePath is the unquoted reference literal.
	ReferencePath string
	// InlineOverride is the parsed inline body, or nil when absent or unparsable.
	InlineOverride any
}

// ResolvedSchema is the mapping produced by loading (and optionally invoking)
// a schema source.
type ResolvedSchema map[string]any

// DuplicateDirective is the ordered list of target names of a duplicate block.
type DuplicateDirective []string

// OutputAsset is one emitted (key, content) pair.
type OutputAsset struct {
	// Key is the slash-separated output path relative to the output directory.
	Key string
	// Content is the final text.
	Content string
}

// DependencyRecord lists what a batch touched, for rebuild watching.
type DependencyRecord struct {
	// FileDeps are absolute paths of schema sources.
	FileDeps []string
	// ContextDeps are the directories containing FileDeps.
	ContextDeps []string
}

// Empty reports whether no dependency was recorded.
func (r DependencyRecord) Empty() bool {
	return len(r.FileDeps) == 0 && len(r.ContextDeps) == 0
}

// Diagnostic is a failure attached to one source file.
type Diagnostic struct {
	// File is the path relative to the source directory.
	File string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.File, d.Err)
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// FileResult is the outcome of one file pipeline: either assets or a diagnostic.
type FileResult struct {
	// File is the template path relative to the source directory.
	File string
	// Assets are the outputs of a successful pipeline, in emission order.
	Assets []OutputAsset
	// Diagnostic is set when the pipeline failed; Assets is then empty.
	Diagnostic *Diagnostic
}

// Failed reports whether the pipeline produced a diagnostic.
func (r FileResult) Failed() bool {
	return r.Diagnostic != nil
}

// SortedUnique returns a sorted copy of paths with duplicates removed.
func SortedUnique(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
