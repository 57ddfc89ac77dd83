// Package watch reports working-tree changes using fsnotify.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a batch of events is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a directory tree recursively. Events for a burst of
// filesystem activity are coalesced into a single notification on C.
type Watcher struct {
	root     string
	exclude  map[string]bool
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *zap.Logger

	// C receives the repo-relative paths touched during one burst.
	C chan []string

	closeOnce sync.Once
	done      chan struct{}
}

// New watches root and every directory below it, skipping directories whose
// name is in exclude.
func New(root string, exclude []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		exclude:  make(map[string]bool, len(exclude)),
		debounce: debounce,
		fsw:      fsw,
		logger:   logger,
		C:        make(chan []string, 1),
		done:     make(chan struct{}),
	}
	for _, name := range exclude {
		w.exclude[name] = true
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers dir and its subdirectories with fsnotify.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.exclude[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// ignored reports whether a path lies in an excluded directory.
func (w *Watcher) ignored(rel string) bool {
	for dir := rel; dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if w.exclude[filepath.Base(dir)] {
			return true
		}
	}
	return false
}

// Run delivers debounced batches on C until ctx is done or Close is called.
// C is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.C)

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil || w.ignored(rel) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("adding new directory to watcher", zap.Error(err))
					}
				}
			}
			w.logger.Debug("fs event", zap.String("path", rel), zap.Stringer("op", ev.Op))
			pending[filepath.ToSlash(rel)] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			select {
			case w.C <- batch:
			case <-ctx.Done():
				return ctx.Err()
			case <-w.done:
				return nil
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
