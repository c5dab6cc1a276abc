package deps

import (
	"path/filepath"
	"sync"

	"github.com/tacogips/sectionforge/internal/template/model"
)

// Tracker collects the schema paths a batch touched. It is safe for
// concurrent use by file pipelines.
type Tracker struct {
	mu      sync.Mutex
	touched map[string]struct{}
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{touched: make(map[string]struct{})}
}

// Touch records an absolute schema path, whether or not it loaded.
func (t *Tracker) Touch(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touched[path] = struct{}{}
}

// Touched returns the recorded paths.
func (t *Tracker) Touched() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.touched))
	for p := range t.touched {
		paths = append(paths, p)
	}
	return model.SortedUnique(paths)
}

// TrackModuleLoads diffs two cache snapshots. Every path present after but not
// before becomes a file dependency and contributes its directory as a context
// dependency.
func TrackModuleLoads(before, after []string) model.DependencyRecord {
	seen := make(map[string]struct{}, len(before))
	for _, p := range before {
		seen[p] = struct{}{}
	}

	var loaded []string
	for _, p := range after {
		if _, ok := seen[p]; !ok {
			loaded = append(loaded, p)
		}
	}
	return recordFor(loaded)
}

// Record merges the snapshot diff with every touched path. Touched paths that
// never loaded (a missing schema file) are still recorded so that creating
// them triggers a rebuild.
func (t *Tracker) Record(before, after []string) model.DependencyRecord {
	diff := TrackModuleLoads(before, after)
	return recordFor(append(diff.FileDeps, t.Touched()...))
}

// Invalidate evicts every file dependency of rec from cache so the next batch
// reads the sources from disk again.
func Invalidate(cache *Cache, rec model.DependencyRecord) {
	cache.Invalidate(rec.FileDeps...)
}

func recordFor(paths []string) model.DependencyRecord {
	files := model.SortedUnique(paths)
	dirs := make([]string, 0, len(files))
	for _, p := range files {
		dirs = append(dirs, filepath.Dir(p))
	}
	return model.DependencyRecord{
		FileDeps:    files,
		ContextDeps: model.SortedUnique(dirs),
	}
}
