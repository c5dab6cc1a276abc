package resolver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/deps"
)

// Loader loads a schema source by absolute path.
type Loader interface {
	// Load reads and decodes the schema at path.
	Load(ctx context.Context, path string) (*Module, error)
}

// ReadFileFunc reads a whole file.
type ReadFileFunc func(path string) ([]byte, error)

// FileLoader loads schema files from disk through a fingerprinted cache.
type FileLoader struct {
	readFile ReadFileFunc
	cache    *deps.Cache
	decoders map[string]Decoder
}

// NewFileLoader creates a FileLoader. A nil readFile uses os.ReadFile; a nil
// cache disables caching.
func NewFileLoader(readFile ReadFileFunc, cache *deps.Cache) *FileLoader {
	if readFile == nil {
		readFile = os.ReadFile
	}
	return &FileLoader{
		readFile: readFile,
		cache:    cache,
		decoders: defaultDecoders(),
	}
}

// Load reads path, returns the cached module when the content fingerprint is
// unchanged, and decodes it otherwise. A load that has started is not
// interrupted by ctx.
func (l *FileLoader) Load(_ context.Context, path string) (*Module, error) {
	decode, ok := l.decoders[extensionOf(path)]
	if !ok {
		return nil, fmt.Errorf("unsupported schema file type %q (supported: %s)",
			extensionOf(path), strings.Join(SupportedExtensions(), ", "))
	}

	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	fp := deps.Fingerprint(data)

	if l.cache != nil {
		if cached, ok := l.cache.Get(path, fp); ok {
			debug.Debug("[resolver] cache hit: %s", path)
			return cached.(*Module), nil
		}
	}

	mod, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	debug.Debug("[resolver] loaded %s (generator=%v, %d bytes)", path, mod.IsGenerator(), len(data))

	if l.cache != nil {
		l.cache.Put(path, fp, mod)
	}
	return mod, nil
}
