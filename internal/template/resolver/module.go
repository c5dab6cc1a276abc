package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// GeneratorFunc produces a schema from the template base name and the parsed
// inline override (nil when absent).
type GeneratorFunc func(name string, override any) (any, error)

// Module is a loaded schema source: either plain data or a generator.
type Module struct {
	// Path is the absolute source path, or "@name" for registered generators.
	Path string
	// Value is the data of a plain module.
	Value any
	// Generator is set for generator modules.
	Generator GeneratorFunc
}

// IsGenerator reports whether the module must be invoked.
func (m *Module) IsGenerator() bool {
	return m.Generator != nil
}

// Effective returns the schema value for a template: the result of invoking a
// generator once, or the plain value.
func (m *Module) Effective(name string, override any) (any, error) {
	if m.IsGenerator() {
		return m.Generator(name, override)
	}
	return m.Value, nil
}

// Decoder turns the bytes of a schema file into a Module.
type Decoder func(path string, data []byte) (*Module, error)

// defaultDecoders maps file extensions to decoders.
func defaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".json":  decodeJSONModule,
		".jsonc": decodeJSONModule,
		".yaml":  decodeYAMLModule,
		".yml":   decodeYAMLModule,
		".hcl":   decodeHCLModule,
	}
}

// SupportedExtensions lists the schema file extensions understood by default.
func SupportedExtensions() []string {
	return []string{".json", ".jsonc", ".yaml", ".yml", ".hcl"}
}

func decodeJSONModule(path string, data []byte) (*Module, error) {
	v, err := DecodeJSONC(data)
	if err != nil {
		return nil, err
	}
	return &Module{Path: path, Value: v}, nil
}

func decodeYAMLModule(path string, data []byte) (*Module, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &Module{Path: path, Value: normalizeYAML(v)}, nil
}

// DecodeJSONC parses JSON that may carry comments and trailing commas.
// Numbers are kept as json.Number so they are re-emitted unchanged.
func DecodeJSONC(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: unexpected data after top-level value")
	}
	return v, nil
}

// normalizeYAML converts map[any]any (YAML mappings with non-string keys)
// into map[string]any so the value can be serialized as JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}

func extensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
