// Package watcher implements the --watch mode: it monitors the scanned
// directory trees and emits debounced change events so the descriptor can
// be regenerated while the tree evolves.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ritzau/cmakerer/pkg/logging"
	"github.com/ritzau/cmakerer/pkg/scanner"
)

// ChangeEvent represents a batch of relevant file system changes.
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// TreeWatcher watches the search-root trees for changes to candidate
// source files, applying the same directory pruning as the scanner.
type TreeWatcher struct {
	watcher *fsnotify.Watcher
	roots   []string
	filter  *scanner.Filter
	opts    scanner.Options
	events  chan ChangeEvent
}

// New creates a watcher over the given search roots. The filter and
// options must match the ones used for scanning so pruned subtrees stay
// unwatched.
func New(roots []string, filter *scanner.Filter, opts scanner.Options) (*TreeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &TreeWatcher{
		watcher: watcher,
		roots:   roots,
		filter:  filter,
		opts:    opts,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start adds every walkable directory to the watcher and begins processing
// events until the context is cancelled.
func (tw *TreeWatcher) Start(ctx context.Context) error {
	count := 0
	for _, root := range tw.roots {
		n, err := tw.watchTree(root)
		if err != nil {
			return err
		}
		count += n
	}
	logging.Info("watching for changes", "directories", count)

	go tw.processEvents(ctx)
	return nil
}

// watchTree adds root and its non-pruned subdirectories to the watcher.
func (tw *TreeWatcher) watchTree(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("cannot watch search root %s: %w", root, err)
			}
			return nil // skip directories we can't access
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." {
			rel = filepath.ToSlash(rel)
			if tw.filter.FilteredSegment(d.Name()) || tw.filter.ExcludedDir(rel) {
				return filepath.SkipDir
			}
		}

		if err := tw.watcher.Add(path); err != nil {
			logging.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

// processEvents batches raw fsnotify events into ChangeEvents, following
// newly created directories as they appear.
func (tw *TreeWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		tw.events <- ChangeEvent{
			Paths:     pending,
			Timestamp: time.Now(),
		}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			_ = tw.watcher.Close()
			close(tw.events)
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				close(tw.events)
				return
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !tw.filter.FilteredSegment(filepath.Base(event.Name)) {
						if err := tw.watcher.Add(event.Name); err != nil {
							logging.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if !scanner.IsCandidate(filepath.Base(event.Name), tw.opts) {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				close(tw.events)
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events.
func (tw *TreeWatcher) Events() <-chan ChangeEvent {
	return tw.events
}

// Stop stops the file watcher.
func (tw *TreeWatcher) Stop() error {
	return tw.watcher.Close()
}
