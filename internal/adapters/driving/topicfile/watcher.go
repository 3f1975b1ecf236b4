package topicfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/batchwriter/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Update is a reload of the watched file.
type Update struct {
	File *File
	Err  error
}

// Watcher reloads a topics file when it changes on disk.
// The parent directory is watched so that editors which save by
// rename-and-replace are still seen.
type Watcher struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &Watcher{path: abs, debounce: DefaultDebounce}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Watch starts watching and returns a channel of reloads.
// The channel closes when ctx is done or Close is called.
func (w *Watcher) Watch(ctx context.Context) (<-chan Update, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	updates := make(chan Update)
	go w.run(ctx, fw, updates)
	return updates, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, updates chan<- Update) {
	defer close(updates)
	defer func() { _ = w.Close() }()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				pending = time.After(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("topics watcher: %v", err)

		case <-pending:
			pending = nil
			f, err := Load(w.path)
			select {
			case updates <- Update{File: f, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// relevant reports whether an event should trigger a reload.
// Removal and rename are ignored; a replacement arrives as a create.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}
