package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/model"
)

// WatchOptions contains options for the watch workflow.
type WatchOptions struct {
	BuildOptions
	// Interval overrides the configured polling interval when positive.
	Interval time.Duration
	// OnBuild is called after every build, including the first.
	OnBuild func(*BuildResult, error)
}

// Watch builds once, then rebuilds whenever a template, a recorded schema
// dependency, or the entry list of a dependency directory changes. It polls
// until ctx is cancelled and returns nil then. A build in progress is always
// completed before cancellation is observed.
func Watch(ctx context.Context, opts WatchOptions) error {
	debug.DebugSection("[app] Watch workflow start")

	b, err := NewBuilder(opts.BuildOptions)
	if err != nil {
		return err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval, err = b.Config().WatchInterval()
		if err != nil {
			return NewValidationError("invalid watch interval", err)
		}
	}
	debug.DebugValue("[app] Watch interval", interval)

	onBuild := opts.OnBuild
	if onBuild == nil {
		onBuild = func(*BuildResult, error) {}
	}

	var deps model.DependencyRecord
	build := func() string {
		result, err := b.Run(ctx)
		if result != nil && result.Batch != nil {
			deps = result.Batch.Dependencies
		}
		state := watchState(b.batch.SourceDir, deps)
		onBuild(result, err)
		return state
	}

	state := build()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			debug.Debug("[app] Watch stopped: %v", ctx.Err())
			return nil
		case <-ticker.C:
			next := watchState(b.batch.SourceDir, deps)
			if next == state {
				continue
			}
			debug.Debug("[app] Change detected, rebuilding")
			state = build()
		}
	}
}

// watchState digests everything a rebuild depends on: the source directory
// listing and its files, each file dependency, and each context directory
// listing.
func watchState(sourceDir string, deps model.DependencyRecord) string {
	var entries []HashableFile

	entries = append(entries, dirEntry(sourceDir))
	if names, err := listDir(sourceDir); err == nil {
		for _, name := range names {
			entries = append(entries, fileEntry(filepath.Join(sourceDir, name)))
		}
	}
	for _, p := range deps.FileDeps {
		entries = append(entries, fileEntry(p))
	}
	for _, dir := range deps.ContextDeps {
		entries = append(entries, dirEntry(dir))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return HashWatchState(entries)
}

func fileEntry(path string) HashableFile {
	data, err := os.ReadFile(path)
	if err != nil {
		// Missing and unreadable paths hash as such, so their appearance
		// is a change.
		return HashableFile{Path: path + "\x00missing"}
	}
	return HashableFile{Path: path, Content: data}
}

func dirEntry(dir string) HashableFile {
	names, err := listDir(dir)
	if err != nil {
		return HashableFile{Path: dir + "\x00missing"}
	}
	return HashableFile{Path: dir + string(filepath.Separator), Content: []byte(strings.Join(names, "\n"))}
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
