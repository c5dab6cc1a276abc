package generator

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/model"
)

// KeyMapper computes output keys. A key is the path of the file under the
// output root, relative to the output directory, slash separated.
type KeyMapper struct {
	outputDir  string
	outputRoot string
}

// NewKeyMapper creates a KeyMapper. A relative outputRoot is taken relative to
// outputDir; an empty outputDir means the working directory.
func NewKeyMapper(outputDir, outputRoot string) (*KeyMapper, error) {
	if outputDir == "" {
		outputDir = "."
	}
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	root := outputRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(absDir, root)
	}

	debug.Debug("[generator] KeyMapper: outputDir=%s outputRoot=%s", absDir, root)
	return &KeyMapper{outputDir: absDir, outputRoot: filepath.Clean(root)}, nil
}

// Key returns the output key for a source-relative path.
func (k *KeyMapper) Key(relPath string) (string, error) {
	target := filepath.Join(k.outputRoot, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(k.outputDir, target)
	if err != nil {
		return "", newGeneratorError(GeneratorPathError, "cannot compute output key", relPath, err)
	}
	key := filepath.ToSlash(rel)
	if key == ".." || strings.HasPrefix(key, "../") {
		return "", newGeneratorError(GeneratorPathError,
			fmt.Sprintf("output key %q escapes the output directory", key), relPath, nil)
	}
	return key, nil
}

// VariantKey replaces the file name of a natural key with "<target>.liquid".
func VariantKey(naturalKey, target string) string {
	dir := path.Dir(naturalKey)
	name := target + model.DefaultTemplateExtension
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

// validateTargetName rejects duplicate targets that would not stay a single
// file name next to the natural key.
func validateTargetName(target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("duplicate target name is empty")
	}
	if strings.Contains(target, "..") {
		return fmt.Errorf("duplicate target %q contains path traversal (..)", target)
	}
	if strings.ContainsAny(target, "/\\") {
		return fmt.Errorf("duplicate target %q contains a path separator", target)
	}
	if strings.Contains(target, "\x00") {
		return fmt.Errorf("duplicate target %q contains a null byte", target)
	}
	return nil
}
