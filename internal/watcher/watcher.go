// Package watcher re-audits workspace files as they change on disk.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/index"
	"github.com/aidanlsb/altscan/internal/logging"
	"github.com/aidanlsb/altscan/internal/paths"
)

// DefaultDebounce is how long a file must stay quiet before it is re-audited.
const DefaultDebounce = 150 * time.Millisecond

// minTick bounds how often pending events are checked.
const minTick = time.Millisecond

// Watcher monitors a workspace and re-indexes files after they settle.
type Watcher struct {
	indexer  *index.Indexer
	root     string
	debounce time.Duration
	log      *logging.Logger

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time // workspace-relative path -> last event
	mu        sync.Mutex

	onReindex func(relPath string, page *audit.Page, err error)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Indexer  *index.Indexer
	Debounce time.Duration // Default: DefaultDebounce
	Logger   *logging.Logger

	// OnReindex is called after each settled file is handled. page is nil
	// when the file was removed from the index.
	OnReindex func(relPath string, page *audit.Page, err error)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Indexer == nil {
		return nil, fmt.Errorf("indexer is required")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Watcher{
		indexer:   cfg.Indexer,
		root:      cfg.Indexer.Root(),
		debounce:  debounce,
		log:       log.WithComponent("watcher"),
		pending:   make(map[string]time.Time),
		onReindex: cfg.OnReindex,
	}, nil
}

// Start watches the workspace until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}
	w.log.Info("watching workspace", zap.String("root", w.root))

	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			w.processPending(ctx, now)
		}
	}
}

// tickInterval is a third of the debounce delay, never below minTick.
func (w *Watcher) tickInterval() time.Duration {
	return max(w.debounce/3, minTick)
}

// handleEvent records a filesystem event for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !paths.ShouldSkipDir(filepath.Base(event.Name)) && w.fsWatcher != nil {
				if err := w.addWatchRecursive(event.Name); err != nil {
					w.log.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
				}
			}
			return
		}
	}

	rel := paths.RelPath(w.root, event.Name)
	if !w.indexer.Indexes(rel) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.log.Debug("event", zap.String("op", event.Op.String()), zap.String("file", rel))
	w.schedule(rel, time.Now())
}

func (w *Watcher) schedule(rel string, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = at
}

// processPending re-indexes files whose last event is older than the
// debounce delay, in path order.
func (w *Watcher) processPending(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var ready []string
	for rel, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, rel)
			delete(w.pending, rel)
		}
	}
	w.mu.Unlock()
	sort.Strings(ready)

	for _, rel := range ready {
		page, err := w.indexer.IndexFile(ctx, rel)
		if err != nil {
			w.log.Error("reindex failed", zap.String("file", rel), zap.Error(err))
		} else {
			w.log.Debug("reindexed", zap.String("file", rel))
		}
		if w.onReindex != nil {
			w.onReindex(rel, page, err)
		}
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && paths.ShouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.log.Warn("failed to watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}
