package generator

import (
	"os"
	"path/filepath"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/model"
)

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile writes content to a file, replacing it atomically.
	WriteFile(path string, content []byte) error

	// CreateDir creates a directory and any necessary parent directories.
	CreateDir(path string) error

	// Exists checks if a file or directory exists at the given path.
	Exists(path string) bool
}

// FileWriter implements Writer for filesystem operations.
type FileWriter struct {
	mode os.FileMode
}

// NewFileWriter creates a new FileWriter. Files are created with 0644.
func NewFileWriter() Writer {
	return &FileWriter{mode: 0644}
}

// WriteFile writes content to a file.
// Creates parent directories if they don't exist.
// Writes atomically using a temporary file and rename.
func (w *FileWriter) WriteFile(path string, content []byte) error {
	debug.Debug("[generator] Writing file: %s (size: %d bytes)", path, len(content))

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := w.CreateDir(dir); err != nil {
			return newGeneratorError(GeneratorWriteFailed,
				"failed to create parent directory",
				path,
				err)
		}
	}

	tempFile := path + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, w.mode)
	if err != nil {
		return newGeneratorError(GeneratorWriteFailed,
			"failed to create temporary file",
			path,
			err)
	}

	_, err = f.Write(content)
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed,
			"failed to write file content",
			path,
			err)
	}

	if closeErr != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed,
			"failed to close file",
			path,
			closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed,
			"failed to rename temporary file",
			path,
			err)
	}

	return nil
}

// CreateDir creates a directory and any necessary parent directories.
// Uses 0755 permissions for created directories.
func (w *FileWriter) CreateDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return newGeneratorError(GeneratorWriteFailed,
			"failed to create directory",
			path,
			err)
	}
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (w *FileWriter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteResult summarizes an emission of assets.
type WriteResult struct {
	// Written contains the keys of files whose content changed.
	Written []string
	// Unchanged contains the keys of files already holding the same content.
	Unchanged []string
}

// WriteAssets emits every asset of assets under outputDir, in key order.
// Files whose current content already matches are left untouched. The first
// write error stops the emission.
func WriteAssets(w Writer, outputDir string, assets *model.AssetMap) (*WriteResult, error) {
	result := &WriteResult{}
	for _, a := range assets.Assets() {
		path := filepath.Join(outputDir, filepath.FromSlash(a.Key))

		if current, err := os.ReadFile(path); err == nil && string(current) == a.Content {
			debug.Debug("[generator] Unchanged: %s", a.Key)
			result.Unchanged = append(result.Unchanged, a.Key)
			continue
		}

		if err := w.WriteFile(path, []byte(a.Content)); err != nil {
			return result, err
		}
		result.Written = append(result.Written, a.Key)
	}
	return result, nil
}
