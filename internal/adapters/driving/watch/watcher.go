// Package watch monitors a papers directory and ingests files as they
// arrive. It is a driving adapter: filesystem events call into the
// library service the same way a CLI command would.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// debounceDelay lets editors and download managers finish writing before
// ingestion reads the file.
const debounceDelay = 500 * time.Millisecond

// watchedExtensions are the file types the watcher hands to ingestion.
var watchedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
}

// Watcher ingests files dropped into a directory.
type Watcher struct {
	library driving.LibraryService
	dir     string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over dir.
func New(library driving.LibraryService, dir string) *Watcher {
	return &Watcher{
		library: library,
		dir:     dir,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches the directory until ctx is cancelled. Ingestion failures
// are logged and never stop the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	logger.Info("Watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if isHidden(event.Name) {
		return
	}
	if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	// Create and write events arrive in bursts for one file; ingest once
	// after the burst settles.
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(debounceDelay)
		return
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	doc, err := w.library.Ingest(ctx, path)
	if err != nil {
		logger.Warn("Auto-ingest of %s failed: %v", path, err)
		return
	}
	logger.Info("Ingested %s as %s", filepath.Base(path), doc.ID)
}

// isHidden reports whether any path element starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
