package generator

import (
	"context"
	"path"
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/model"
	"github.com/tacogips/sectionforge/internal/template/parser"
	"github.com/tacogips/sectionforge/internal/template/resolver"
)

// Processor runs the pipeline of a single template file.
type Processor interface {
	// Process parses, resolves and expands one file. It never returns an
	// error directly; failures are carried by the result's Diagnostic.
	Process(ctx context.Context, file model.TemplateFile) model.FileResult
}

// FileProcessor implements Processor: parse, then resolve, then expand, in
// that order and nothing else.
type FileProcessor struct {
	parser     parser.Parser
	resolver   *resolver.Resolver
	expander   *Expander
	keys       *KeyMapper
	schemaRoot string
	genDir     string
}

// NewFileProcessor creates a new FileProcessor. genDir may be empty.
func NewFileProcessor(p parser.Parser, r *resolver.Resolver, keys *KeyMapper, schemaRoot, genDir string) Processor {
	return &FileProcessor{
		parser:     p,
		resolver:   r,
		expander:   NewExpander(p),
		keys:       keys,
		schemaRoot: schemaRoot,
		genDir:     genDir,
	}
}

// Process runs the pipeline for file.
func (p *FileProcessor) Process(ctx context.Context, file model.TemplateFile) model.FileResult {
	assets, err := p.process(ctx, file)
	if err != nil {
		debug.Debug("[generator] Failed to process %s: %v", file.RelPath, err)
		return model.FileResult{
			File:       file.RelPath,
			Diagnostic: &model.Diagnostic{File: file.RelPath, Err: err},
		}
	}
	return model.FileResult{File: file.RelPath, Assets: assets}
}

func (p *FileProcessor) process(ctx context.Context, file model.TemplateFile) ([]model.OutputAsset, error) {
	naturalKey, err := p.keys.Key(file.RelPath)
	if err != nil {
		return nil, err
	}

	match := p.parser.ExtractSchema(file.Content)
	if !match.Matched {
		debug.Debug("[generator] %s: no schema directive, passing through", file.RelPath)
		return []model.OutputAsset{{Key: naturalKey, Content: file.Content}}, nil
	}

	resolved, err := p.resolver.Resolve(ctx, resolver.ResolveRequest{
		File:         file.RelPath,
		BaseName:     baseName(file.RelPath),
		Content:      file.Content,
		Match:        match,
		SchemaRoot:   p.schemaRoot,
		GeneratorDir: p.genDir,
	})
	if err != nil {
		return nil, err
	}

	variants, single, err := p.expander.Expand(file.RelPath, resolved, func(target string) string {
		return VariantKey(naturalKey, target)
	})
	if err != nil {
		return nil, err
	}
	if variants != nil {
		return variants, nil
	}

	return []model.OutputAsset{{Key: naturalKey, Content: single}}, nil
}

// baseName returns the file name without directory and extension.
func baseName(relPath string) string {
	name := path.Base(relPath)
	return strings.TrimSuffix(name, path.Ext(name))
}
