// Package resolver turns a schema directive into a rewritten schema block.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/deps"
	"github.com/tacogips/sectionforge/internal/template/model"
	"github.com/tacogips/sectionforge/internal/template/parser"
)

// ResolveRequest is one template's schema directive to resolve.
type ResolveRequest struct {
	// File is the template path relative to the source directory.
	File string
	// BaseName is the template file name without extension.
	BaseName string
	// Content is the template content.
	Content string
	// Match is the extracted directive. It must be Matched.
	Match parser.SchemaMatch
	// SchemaRoot is the directory reference paths are resolved against.
	SchemaRoot string
	// GeneratorDir is searched for '<name>.hcl' when '@name' is not in the
	// registry. Empty disables the lookup.
	GeneratorDir string
}

// Resolver resolves schema directives.
type Resolver struct {
	loader   Loader
	registry *Registry
	tracker  *deps.Tracker
}

// NewResolver creates a Resolver. registry and tracker may be nil.
func NewResolver(loader Loader, registry *Registry, tracker *deps.Tracker) *Resolver {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Resolver{
		loader:   loader,
		registry: registry,
		tracker:  tracker,
	}
}

// Resolve loads the referenced schema, applies the inline override, and
// returns the content with the directive block replaced. Nothing is returned
// on failure; resolution is all-or-nothing per file.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (string, error) {
	if err := parser.ValidateSchemaMatch(req.Match); err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			perr.File = req.File
		}
		return "", err
	}

	mod, modulePath, err := r.load(ctx, req)
	if err != nil {
		return "", &ModuleLoadError{
			File:       req.File,
			Directive:  req.Match.OpenTag,
			Offset:     req.Match.ReferenceOffset,
			ModulePath: modulePath,
			Cause:      err,
		}
	}

	override := parseInlineOverride(req)

	effective, err := mod.Effective(req.BaseName, override)
	if err != nil {
		return "", &ModuleLoadError{
			File:       req.File,
			Directive:  req.Match.OpenTag,
			Offset:     req.Match.ReferenceOffset,
			ModulePath: modulePath,
			Cause:      fmt.Errorf("generator failed: %w", err),
		}
	}

	schema, ok := asMapping(effective)
	if !ok {
		return "", &SchemaTypeError{
			File:       req.File,
			ModulePath: modulePath,
			Got:        describe(effective),
		}
	}

	body, err := RenderSchema(model.ResolvedSchema(schema))
	if err != nil {
		return "", fmt.Errorf("cannot serialize schema %s for %s: %w", modulePath, req.File, err)
	}

	debug.Debug("[resolver] resolved %s -> %s (%d keys)", req.File, modulePath, len(schema))
	return parser.ReplaceSchemaBlock(req.Content, req.Match, body), nil
}

// load resolves the reference to a module. It returns the path used in
// diagnostics even when loading fails.
func (r *Resolver) load(ctx context.Context, req ResolveRequest) (*Module, string, error) {
	ref := req.Match.ReferencePath

	var path string
	if name, ok := strings.CutPrefix(ref, model.GeneratorPrefix); ok {
		if fn, found := r.registry.Lookup(name); found {
			return &Module{Path: ref, Generator: fn}, ref, nil
		}
		if req.GeneratorDir == "" {
			return nil, ref, fmt.Errorf("no generator registered as %q", name)
		}
		p, err := GeneratorPath(req.GeneratorDir, name)
		if err != nil {
			return nil, ref, err
		}
		path = p
	} else {
		p, err := ResolveModulePath(req.SchemaRoot, ref)
		if err != nil {
			return nil, ref, err
		}
		path = p
	}
	if r.tracker != nil {
		r.tracker.Touch(path)
	}

	mod, err := r.loader.Load(ctx, path)
	if err != nil {
		return nil, path, err
	}
	return mod, path, nil
}

// GeneratorPath returns the HCL file backing '@name' in dir. Names are plain
// file names; separators and dot segments are rejected.
func GeneratorPath(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid generator name %q", name)
	}
	return ResolveModulePath(dir, name+generatorExtension)
}

// ResolveModulePath joins a reference literal to the schema root and returns
// an absolute, cleaned path. Absolute references are kept as they are.
func ResolveModulePath(schemaRoot, ref string) (string, error) {
	p := filepath.FromSlash(ref)
	if !filepath.IsAbs(p) {
		p = filepath.Join(schemaRoot, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return abs, nil
}

// parseInlineOverride parses the inline body. A body that is absent or not
// valid JSON yields nil; the latter is reported as a warning only.
func parseInlineOverride(req ResolveRequest) any {
	if !req.Match.HasBody || strings.TrimSpace(req.Match.InlineBody) == "" {
		return nil
	}
	v, err := DecodeJSONC([]byte(req.Match.InlineBody))
	if err != nil {
		debug.Warn("%s: ignoring inline schema override: %v", req.File, err)
		return nil
	}
	return v
}

// asMapping returns v as a map[string]any when it is any map with string
// keys, such as a ResolvedSchema or a map[string]string from a generator.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		if m == nil {
			m = map[string]any{}
		}
		return m, true
	case model.ResolvedSchema:
		if m == nil {
			m = model.ResolvedSchema{}
		}
		return m, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		out[it.Key().String()] = it.Value().Interface()
	}
	return out, true
}

// RenderSchema pretty-prints a resolved schema. HTML characters are kept
// literal since schema strings often carry markup.
func RenderSchema(schema model.ResolvedSchema) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(schema)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
