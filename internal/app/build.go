package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tacogips/sectionforge/internal/config"
	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/generator"
)

// DryRunAsset describes an asset that would be written in dry-run mode.
type DryRunAsset struct {
	// Key is the output key.
	Key string
	// Size is the content length in bytes.
	Size int
	// Exists indicates a file is already present at the key.
	Exists bool
}

// BuildResult contains the results of one build.
type BuildResult struct {
	// Batch is the generator outcome, including per-file diagnostics.
	Batch *generator.BatchResult
	// OutputDir is the absolute directory keys are relative to.
	OutputDir string
	// Written contains the keys of files written (empty in dry-run mode).
	Written []string
	// Unchanged contains the keys of files that already held the output.
	Unchanged []string
	// DryRunAssets lists every asset in dry-run mode.
	DryRunAssets []DryRunAsset
	// Duration is the wall time of the build.
	Duration time.Duration
}

// HasErrors reports whether any template failed.
func (r *BuildResult) HasErrors() bool {
	return r.Batch != nil && r.Batch.HasErrors()
}

// Builder runs builds for one configuration. The generator and its
// resolution cache are kept across runs.
type Builder struct {
	cfg    *config.Config
	batch  generator.BatchOptions
	gen    *generator.DefaultGenerator
	writer generator.Writer
	dryRun bool
}

// NewBuilder loads the configuration for opts and prepares a Builder.
func NewBuilder(opts BuildOptions) (*Builder, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateDirectories(cfg); err != nil {
		return nil, NewValidationError("invalid configuration", err)
	}

	batch, err := batchOptions(cfg)
	if err != nil {
		return nil, NewValidationError("failed to resolve paths", err)
	}
	debug.DebugValue("[app] SourceDir", batch.SourceDir)
	debug.DebugValue("[app] SchemaDir", batch.SchemaDir)
	debug.DebugValue("[app] OutputDir", batch.OutputDir)
	debug.DebugValue("[app] OutputRoot", batch.OutputRoot)

	return &Builder{
		cfg:    cfg,
		batch:  batch,
		gen:    generator.NewGenerator(nil, opts.Registry),
		writer: generator.NewFileWriter(),
		dryRun: opts.DryRun,
	}, nil
}

// Config returns the effective configuration.
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Run executes one batch and emits its assets. Templates that failed are
// reported in the result; successful ones are still written.
func (b *Builder) Run(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	batch, err := b.gen.RunBatch(ctx, b.batch)
	if err != nil {
		return nil, NewBuildError("failed to run batch", err)
	}

	result := &BuildResult{
		Batch:     batch,
		OutputDir: b.batch.OutputDir,
	}

	if b.dryRun {
		for _, a := range batch.Assets.Assets() {
			_, statErr := os.Stat(filepath.Join(b.batch.OutputDir, filepath.FromSlash(a.Key)))
			result.DryRunAssets = append(result.DryRunAssets, DryRunAsset{
				Key:    a.Key,
				Size:   len(a.Content),
				Exists: statErr == nil,
			})
		}
	} else {
		written, err := generator.WriteAssets(b.writer, b.batch.OutputDir, batch.Assets)
		if err != nil {
			return nil, NewBuildError("failed to write output", err)
		}
		result.Written = written.Written
		result.Unchanged = written.Unchanged
	}

	result.Duration = time.Since(start)
	debug.Debug("[app] Build finished in %s: %d asset(s), %d error(s)",
		result.Duration, batch.Assets.Len(), len(batch.Diagnostics))
	return result, nil
}

// Build runs a single build.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	debug.DebugSection("[app] Build workflow start")
	debug.DebugValue("[app] DryRun", opts.DryRun)

	b, err := NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	return b.Run(ctx)
}
