package app

import (
	"os"

	"github.com/tacogips/sectionforge/internal/config"
	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/generator"
	"github.com/tacogips/sectionforge/internal/template/resolver"
)

// BuildOptions contains options shared by the build and watch workflows.
// Non-empty path overrides take precedence over the configuration file and
// are relative to the working directory.
type BuildOptions struct {
	// ConfigPath is the configuration file. Empty means discover one in the
	// working directory, falling back to defaults.
	ConfigPath string
	// FromLiquid overrides from.liquid.
	FromLiquid string
	// FromSchema overrides from.schema.
	FromSchema string
	// FromGenerators overrides from.generators.
	FromGenerators string
	// To overrides to.
	To string
	// OutputDir overrides output_dir.
	OutputDir string
	// Concurrency overrides concurrency when positive.
	Concurrency int
	// DryRun reports what would be written without writing.
	DryRun bool
	// Registry holds '@name' generators implemented in Go. They take
	// precedence over files in from.generators. Optional.
	Registry *resolver.Registry
}

// LoadConfig loads the configuration for opts and applies its overrides.
func LoadConfig(opts BuildOptions) (*config.Config, error) {
	loader := config.NewLoader()

	path := opts.ConfigPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, NewConfigLoadError("failed to get working directory", err)
		}
		if found, ok := config.Discover(wd); ok {
			path = found
		}
	}

	var cfg *config.Config
	if path == "" {
		debug.Debug("[app] No configuration file found, using defaults")
		cfg = config.DefaultConfig()
	} else {
		debug.DebugValue("[app] Config file", path)
		loaded, err := loader.Load(path)
		if err != nil {
			return nil, NewConfigLoadError("failed to load configuration", err)
		}
		cfg = loaded
	}

	if err := applyOverrides(cfg, opts); err != nil {
		return nil, NewConfigLoadError("failed to apply command-line overrides", err)
	}

	if err := loader.Validate(cfg); err != nil {
		return nil, NewValidationError("invalid configuration", err)
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts BuildOptions) error {
	overrides := []struct {
		value string
		field *string
	}{
		{opts.FromLiquid, &cfg.From.Liquid},
		{opts.FromSchema, &cfg.From.Schema},
		{opts.FromGenerators, &cfg.From.Generators},
		{opts.OutputDir, &cfg.OutputDir},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		abs, err := config.ExpandPath(o.value)
		if err != nil {
			return err
		}
		*o.field = abs
	}

	// "to" stays relative to the output directory, as in the file.
	if opts.To != "" {
		cfg.To = opts.To
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	return nil
}

// batchOptions converts a validated configuration into generator options.
func batchOptions(cfg *config.Config) (generator.BatchOptions, error) {
	sourceDir, err := cfg.Resolve(cfg.From.Liquid)
	if err != nil {
		return generator.BatchOptions{}, err
	}
	schemaDir, err := cfg.Resolve(cfg.From.Schema)
	if err != nil {
		return generator.BatchOptions{}, err
	}
	generatorDir, err := cfg.Resolve(cfg.From.Generators)
	if err != nil {
		return generator.BatchOptions{}, err
	}
	outputDir, err := cfg.Resolve(cfg.OutputDir)
	if err != nil {
		return generator.BatchOptions{}, err
	}

	return generator.BatchOptions{
		SourceDir:      sourceDir,
		SchemaDir:      schemaDir,
		GeneratorDir:   generatorDir,
		OutputDir:      outputDir,
		OutputRoot:     cfg.To,
		Extension:      cfg.Extension,
		IgnorePatterns: cfg.IgnorePatterns,
		Concurrency:    cfg.Concurrency,
	}, nil
}
