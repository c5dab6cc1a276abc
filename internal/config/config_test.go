package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.From.Liquid != "src/sections" {
		t.Errorf("Expected From.Liquid=src/sections, got %s", cfg.From.Liquid)
	}
	if cfg.From.Schema != "src/schema" {
		t.Errorf("Expected From.Schema=src/schema, got %s", cfg.From.Schema)
	}
	if cfg.To != "sections" {
		t.Errorf("Expected To=sections, got %s", cfg.To)
	}
	if cfg.Extension != ".liquid" {
		t.Errorf("Expected Extension=.liquid, got %s", cfg.Extension)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	loader := NewLoader()

	t.Run("JSON with comments", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, "sectionforge.jsonc", `{
  // sources
  "from": {"liquid": "theme/src", "schema": "theme/schema"},
  "to": "sections",
  "concurrency": 4,
}`)

		cfg, err := loader.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		want := &Config{
			From:           FromConfig{Liquid: "theme/src", Schema: "theme/schema"},
			To:             "sections",
			OutputDir:      "dist",
			Extension:      ".liquid",
			Concurrency:    4,
			IgnorePatterns: DefaultIgnorePatterns(),
			Watch:          WatchConfig{Interval: "1s"},
			BaseDir:        dir,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, "sectionforge.yaml", `from:
  liquid: src/liquid
  schema: src/schema
output_dir: build
ignore_patterns: []
watch:
  interval: 250ms
`)

		cfg, err := loader.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.From.Liquid != "src/liquid" || cfg.OutputDir != "build" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if len(cfg.IgnorePatterns) != 0 {
			t.Errorf("explicit empty ignore_patterns should be kept, got %v", cfg.IgnorePatterns)
		}
		if d, err := cfg.WatchInterval(); err != nil || d != 250*time.Millisecond {
			t.Errorf("WatchInterval() = %v, %v", d, err)
		}
	})

	tests := []struct {
		name     string
		file     string
		content  string
		wantType ConfigErrorType
	}{
		{"invalid JSON", "sectionforge.json", "{ invalid json }", ConfigInvalid},
		{"unknown field", "sectionforge.json", `{"form": {}}`, ConfigInvalid},
		{"unknown YAML field", "sectionforge.yaml", "outputdir: x\n", ConfigInvalid},
		{"unsupported format", "sectionforge.toml", "to = 'x'", ConfigUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.file, tt.content)
			_, err := loader.Load(path)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %T (%v)", err, err)
			}
			if cfgErr.Type != tt.wantType {
				t.Errorf("Expected type %v, got %v", tt.wantType, cfgErr.Type)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/sectionforge.json")
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Type != ConfigNotFound {
			t.Errorf("Expected ConfigNotFound, got %v", err)
		}
	})
}

func TestLoadOrDefault(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.LoadOrDefault("/nonexistent/sectionforge.json")
	if err != nil {
		t.Fatalf("LoadOrDefault should not error on missing file: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}

	path := writeConfig(t, t.TempDir(), "sectionforge.json", "[")
	if _, err := loader.LoadOrDefault(path); err == nil {
		t.Error("LoadOrDefault should surface parse errors")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing source", func(c *Config) { c.From.Liquid = "" }, "from.liquid"},
		{"missing schema", func(c *Config) { c.From.Schema = "" }, "from.schema"},
		{"extension without dot", func(c *Config) { c.Extension = "liquid" }, "extension"},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, "concurrency"},
		{"bad pattern", func(c *Config) { c.IgnorePatterns = []string{"["} }, "ignore_patterns"},
		{"bad interval", func(c *Config) { c.Watch.Interval = "soon" }, "watch.interval"},
		{"zero interval", func(c *Config) { c.Watch.Interval = "0s" }, "watch.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.BaseDir = dir

	if err := ValidateDirectories(cfg); err == nil {
		t.Error("expected error for missing source directory")
	}

	if err := os.MkdirAll(filepath.Join(dir, "src", "sections"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDirectories(cfg); err != nil {
		t.Errorf("ValidateDirectories() error = %v", err)
	}

	cfg.From.Generators = "src/generators"
	err := ValidateDirectories(cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "from.generators" {
		t.Errorf("expected from.generators error, got %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "src", "generators"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDirectories(cfg); err != nil {
		t.Errorf("ValidateDirectories() error = %v", err)
	}

	cfg.From.Liquid = "file.txt"
	writeConfig(t, dir, "file.txt", "")
	if err := ValidateDirectories(cfg); err == nil {
		t.Error("expected error for non-directory source")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Discover(dir); ok {
		t.Fatal("Discover found a config in an empty directory")
	}

	writeConfig(t, dir, "sectionforge.yaml", "to: x\n")
	want := writeConfig(t, dir, "sectionforge.json", "{}")

	got, ok := Discover(dir)
	if !ok || got != want {
		t.Errorf("Discover() = %q, %v, want %q (json before yaml)", got, ok, want)
	}
}

func TestConfigResolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDir = "/project"

	got, err := cfg.Resolve("src/sections")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := filepath.Join("/project", "src", "sections"); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	got, err = cfg.Resolve("/abs/dir")
	if err != nil || got != filepath.Clean("/abs/dir") {
		t.Errorf("Resolve(abs) = %q, %v", got, err)
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty path", "", false},
		{"absolute path", "/tmp/test", false},
		{"relative path", "./test", false},
		{"home directory", "~", false},
		{"home subdirectory", "~/test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expanded, err := ExpandPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExpandPath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.path != "" && !tt.wantErr && expanded == "" {
				t.Errorf("ExpandPath() returned empty string for non-empty path")
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{"file only", NewConfigError(ConfigInvalid, "a.json", "bad"), "configuration error in a.json: bad"},
		{"field without file", NewConfigErrorWithField(ConfigValidationFailed, "", "from.liquid", "required"), "configuration error [from.liquid]: required"},
		{"with cause", NewConfigErrorWithCause(ConfigNotFound, "a.yaml", "missing", cause), "configuration error in a.yaml: missing: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
	if !errors.Is(NewConfigErrorWithCause(ConfigInvalid, "", "x", cause), cause) {
		t.Error("cause is not unwrapped")
	}
	if ConfigUnsupportedFormat.String() != "unsupported format" {
		t.Errorf("String() = %q", ConfigUnsupportedFormat.String())
	}
}
