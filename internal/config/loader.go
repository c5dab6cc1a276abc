package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/sectionforge/internal/debug"
)

// Loader defines the interface for loading configuration files.
type Loader interface {
	// Load loads configuration from the specified file path.
	Load(path string) (*Config, error)
	// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
	LoadOrDefault(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// FileLoader implements the Loader interface for file-based configuration loading.
type FileLoader struct{}

// NewLoader creates a new FileLoader instance.
func NewLoader() Loader {
	return &FileLoader{}
}

// Load loads configuration from the specified file path. JSON files may carry
// comments and trailing commas. Unknown fields are rejected.
func (l *FileLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid JSON syntax", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid YAML syntax", err)
		}
	default:
		return nil, NewConfigError(ConfigUnsupportedFormat, path, fmt.Sprintf("unsupported configuration format %q", ext))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to resolve configuration path", err)
	}
	cfg.BaseDir = filepath.Dir(absPath)

	// Merge with defaults for any missing fields
	mergeConfig(&cfg, DefaultConfig())

	debug.DebugValue("[config] loaded", path)
	return &cfg, nil
}

// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
func (l *FileLoader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == ConfigNotFound {
			debug.Debug("[config] %s not found, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (l *FileLoader) Validate(config *Config) error {
	if config.From.Liquid == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "from.liquid", "template source directory is required")
	}
	if config.From.Schema == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "from.schema", "schema directory is required")
	}
	if !strings.HasPrefix(config.Extension, ".") || len(config.Extension) < 2 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "extension",
			fmt.Sprintf("extension %q must start with a dot", config.Extension))
	}
	if config.Concurrency < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "concurrency", "concurrency cannot be negative")
	}
	for _, pattern := range config.IgnorePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return NewConfigErrorWithField(ConfigValidationFailed, "", "ignore_patterns",
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
	if _, err := config.WatchInterval(); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "watch.interval", err.Error())
	}
	return nil
}

// Discover returns the first default configuration file present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range DefaultConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// WatchInterval parses Watch.Interval. An empty interval means one second.
func (c *Config) WatchInterval() (time.Duration, error) {
	if c.Watch.Interval == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", c.Watch.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", d)
	}
	return d, nil
}

// Resolve returns path made absolute against BaseDir. '~' expands to the home
// directory.
func (c *Config) Resolve(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' || filepath.IsAbs(path) {
		return ExpandPath(path)
	}
	base := c.BaseDir
	if base == "" {
		base = "."
	}
	return ExpandPath(filepath.Join(base, path))
}

// mergeConfig merges missing fields from defaults into cfg.
func mergeConfig(cfg, defaults *Config) {
	if cfg.From.Liquid == "" {
		cfg.From.Liquid = defaults.From.Liquid
	}
	if cfg.From.Schema == "" {
		cfg.From.Schema = defaults.From.Schema
	}
	if cfg.To == "" {
		cfg.To = defaults.To
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.Extension == "" {
		cfg.Extension = defaults.Extension
	}
	if cfg.IgnorePatterns == nil {
		cfg.IgnorePatterns = defaults.IgnorePatterns
	}
	if cfg.Watch.Interval == "" {
		cfg.Watch.Interval = defaults.Watch.Interval
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = defaults.BaseDir
	}
}

// ExpandPath expands ~ to home directory and evaluates relative paths.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == filepath.Separator || path[1] == '/' {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return absPath, nil
}
