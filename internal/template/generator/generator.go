package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/deps"
	"github.com/tacogips/sectionforge/internal/template/model"
	"github.com/tacogips/sectionforge/internal/template/parser"
	"github.com/tacogips/sectionforge/internal/template/resolver"
)

// FileSystem is the read side of the host: listing, stat and read.
type FileSystem interface {
	ReadDir(dir string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

// ReadDir lists dir.
func (OSFileSystem) ReadDir(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }

// Stat stats path, following symlinks.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// ReadFile reads path.
func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Generator runs batches over a template directory.
type Generator interface {
	// RunBatch processes every template in opts.SourceDir. Per-file failures
	// are reported in the result; the error is reserved for batch-level
	// problems such as an unreadable source directory.
	RunBatch(ctx context.Context, opts BatchOptions) (*BatchResult, error)
}

// BatchOptions configures one batch.
type BatchOptions struct {
	// SourceDir holds the template files. Only its immediate entries are used.
	SourceDir string

	// SchemaDir is the base for resolving schema reference paths.
	SchemaDir string

	// GeneratorDir holds '<name>.hcl' generators for '@name' references
	// not found in the registry. Optional.
	GeneratorDir string

	// OutputDir is the directory output keys are relative to.
	OutputDir string

	// OutputRoot is where templates land, relative to OutputDir unless absolute.
	OutputRoot string

	// Extension selects template files. Defaults to ".liquid".
	Extension string

	// IgnorePatterns are glob patterns of file names to skip.
	IgnorePatterns []string

	// Concurrency bounds parallel file pipelines. Defaults to runtime.NumCPU().
	Concurrency int
}

// BatchResult contains the outcome of a batch.
type BatchResult struct {
	// Assets is the output map.
	Assets *model.AssetMap

	// Diagnostics contains one entry per failed file, sorted by file.
	Diagnostics []model.Diagnostic

	// Dependencies lists the schema sources touched by the batch.
	Dependencies model.DependencyRecord

	// Files contains the relative paths of all processed templates, sorted.
	Files []string
}

// HasErrors reports whether any file failed.
func (r *BatchResult) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// DefaultGenerator implements Generator. It owns the resolution cache, which
// is emptied of every recorded dependency at the end of each batch.
type DefaultGenerator struct {
	fs       FileSystem
	parser   parser.Parser
	registry *resolver.Registry
	cache    *deps.Cache
}

// NewGenerator creates a new DefaultGenerator. A nil fsys reads the local
// disk; a nil registry allows no '@name' generators.
func NewGenerator(fsys FileSystem, registry *resolver.Registry) *DefaultGenerator {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if registry == nil {
		registry = resolver.NewRegistry()
	}
	return &DefaultGenerator{
		fs:       fsys,
		parser:   parser.NewParser(),
		registry: registry,
		cache:    deps.NewCache(),
	}
}

// Cache exposes the resolution cache.
func (g *DefaultGenerator) Cache() *deps.Cache {
	return g.cache
}

// RunBatch processes every template in opts.SourceDir concurrently.
// Once started, a batch always runs over all enumerated files.
func (g *DefaultGenerator) RunBatch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}

	debug.Debug("[generator] Starting batch: source=%s schema=%s outputDir=%s outputRoot=%s",
		opts.SourceDir, opts.SchemaDir, opts.OutputDir, opts.OutputRoot)

	keys, err := NewKeyMapper(opts.OutputDir, opts.OutputRoot)
	if err != nil {
		return nil, err
	}
	schemaRoot, err := filepath.Abs(opts.SchemaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema directory: %w", err)
	}
	var genDir string
	if opts.GeneratorDir != "" {
		if genDir, err = filepath.Abs(opts.GeneratorDir); err != nil {
			return nil, fmt.Errorf("failed to resolve generator directory: %w", err)
		}
	}

	files, err := g.enumerate(opts)
	if err != nil {
		return nil, err
	}
	debug.Debug("[generator] Processing %d template file(s)", len(files))

	tracker := deps.NewTracker()
	before := g.cache.Snapshot()

	loader := resolver.NewFileLoader(g.fs.ReadFile, g.cache)
	processor := NewFileProcessor(g.parser, resolver.NewResolver(loader, g.registry, tracker), keys, schemaRoot, genDir)

	results := g.fanOut(ctx, files, processor, opts.Concurrency)

	result := &BatchResult{
		Assets:      model.NewAssetMap(),
		Diagnostics: []model.Diagnostic{},
		Files:       make([]string, 0, len(files)),
	}
	collect(result, results)

	after := g.cache.Snapshot()
	result.Dependencies = tracker.Record(before, after)
	deps.Invalidate(g.cache, result.Dependencies)

	debug.Debug("[generator] Batch complete: files=%d assets=%d errors=%d deps=%d",
		len(result.Files), result.Assets.Len(), len(result.Diagnostics), len(result.Dependencies.FileDeps))
	return result, nil
}

// sourceFile is an enumerated template not yet read.
type sourceFile struct {
	path    string
	relPath string
}

// enumerate lists the immediate template files of the source directory.
// Directories and other extensions are skipped silently.
func (g *DefaultGenerator) enumerate(opts BatchOptions) ([]sourceFile, error) {
	entries, err := g.fs.ReadDir(opts.SourceDir)
	if err != nil {
		return nil, newGeneratorError(GeneratorReadFailed, "failed to list source directory", opts.SourceDir, err)
	}

	var files []sourceFile
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(opts.SourceDir, name)

		info, err := g.fs.Stat(full)
		if err != nil {
			// Broken symlinks and races with deletion are treated like
			// entries that are not templates.
			debug.Debug("[generator] Skipping %s: %v", name, err)
			continue
		}
		if info.IsDir() || !ShouldProcessFile(name, opts.Extension, opts.IgnorePatterns) {
			continue
		}
		files = append(files, sourceFile{path: full, relPath: filepath.ToSlash(name)})
	}
	return files, nil
}

// fanOut runs one pipeline per file, at most limit at a time, and returns
// every result.
func (g *DefaultGenerator) fanOut(ctx context.Context, files []sourceFile, processor Processor, limit int) []model.FileResult {
	results := make([]model.FileResult, len(files))
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f sourceFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = g.runFile(ctx, f, processor)
		}(i, f)
	}
	wg.Wait()

	return results
}

func (g *DefaultGenerator) runFile(ctx context.Context, f sourceFile, processor Processor) model.FileResult {
	data, err := g.fs.ReadFile(f.path)
	if err != nil {
		return model.FileResult{
			File: f.relPath,
			Diagnostic: &model.Diagnostic{
				File: f.relPath,
				Err:  newGeneratorError(GeneratorReadFailed, "failed to read template", f.path, err),
			},
		}
	}

	return processor.Process(ctx, model.TemplateFile{
		Path:    f.path,
		RelPath: f.relPath,
		Content: string(data),
	})
}

// collect inserts results into the batch in file order so that a key
// produced by two files is always won by the same one. A file whose assets
// collide with earlier output contributes none of them.
func collect(result *BatchResult, results []model.FileResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	for _, r := range results {
		result.Files = append(result.Files, r.File)
		if r.Failed() {
			result.Diagnostics = append(result.Diagnostics, *r.Diagnostic)
			continue
		}
		if key, ok := collision(result.Assets, r.Assets); ok {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				File: r.File,
				Err: newGeneratorError(GeneratorPathError,
					fmt.Sprintf("output key %q already produced by another template", key), r.File, nil),
			})
			continue
		}
		for _, a := range r.Assets {
			result.Assets.Insert(a)
		}
	}
}

// collision returns the first key of assets already present in m or repeated
// within assets.
func collision(m *model.AssetMap, assets []model.OutputAsset) (string, bool) {
	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		if _, ok := m.Get(a.Key); ok {
			return a.Key, true
		}
		if _, ok := seen[a.Key]; ok {
			return a.Key, true
		}
		seen[a.Key] = struct{}{}
	}
	return "", false
}

// normalizeOptions validates opts and fills in defaults.
func normalizeOptions(opts BatchOptions) (BatchOptions, error) {
	if opts.SourceDir == "" {
		return opts, fmt.Errorf("source directory cannot be empty")
	}
	if opts.SchemaDir == "" {
		return opts, fmt.Errorf("schema directory cannot be empty")
	}
	if opts.Extension == "" {
		opts.Extension = model.DefaultTemplateExtension
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return opts, nil
}
