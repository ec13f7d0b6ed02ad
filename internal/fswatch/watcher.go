// Package fswatch reports source file changes below a root directory using
// fsnotify. It implements adorable.ChangeSource.
package fswatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yacobolo/adorable"
)

var _ adorable.ChangeSource = (*Watcher)(nil)

const eventChannelBuffer = 100

var errAlreadyStarted = errors.New("watcher already started")

// Watcher watches every non-excluded directory below the matcher root.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	matcher   *adorable.Matcher
	log       *slog.Logger
	events    chan adorable.WatchEvent
	errors    chan error

	mu      sync.Mutex
	watched map[string]struct{}
	started bool
}

// New creates a watcher for the files selected by matcher.
func New(matcher *adorable.Matcher, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		matcher:   matcher,
		log:       logger,
		events:    make(chan adorable.WatchEvent, eventChannelBuffer),
		errors:    make(chan error, eventChannelBuffer),
		watched:   make(map[string]struct{}),
	}, nil
}

// Start adds every directory below the root, emits one EventReady with the
// matched files and then reports changes until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errAlreadyStarted
	}
	w.started = true
	w.mu.Unlock()

	root := w.matcher.Root()
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch root: %w", err)
	}

	files, err := w.addRecursively(root)
	if err != nil {
		return err
	}

	w.mu.Lock()
	for _, f := range files {
		w.watched[f] = struct{}{}
	}
	w.mu.Unlock()

	w.events <- adorable.WatchEvent{Kind: adorable.EventReady, Paths: files}

	go w.processEvents(ctx)
	return nil
}

// Events returns the event channel. It is closed once the watcher stops.
func (w *Watcher) Events() <-chan adorable.WatchEvent {
	return w.events
}

// Errors returns the channel of fsnotify errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and releases all resources.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// Watched returns the matched files currently known to exist, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.watched))
	for f := range w.watched {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// addRecursively watches dir and every directory below it that the matcher
// does not skip, returning the matched regular files found on the way.
func (w *Watcher) addRecursively(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			// Skip directories that vanish or cannot be read.
			return nil
		}
		if d.IsDir() {
			if path != w.matcher.Root() && w.matcher.SkipDir(path) {
				return fs.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			return nil
		}
		if d.Type().IsRegular() && w.matcher.Match(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	defer close(w.errors)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			for _, path := range w.convertEvent(event) {
				select {
				case w.events <- adorable.WatchEvent{Kind: adorable.EventChange, Path: path}:
				case <-ctx.Done():
					return
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.log.Error("watch error dropped", "error", err)
			}
		}
	}
}

// convertEvent returns the matched files an fsnotify event changed.
func (w *Watcher) convertEvent(event fsnotify.Event) []string {
	path := event.Name

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Lstat(path)
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.matcher.SkipDir(path) {
				return nil
			}
			// Files may have landed before the directory was watched.
			files, err := w.addRecursively(path)
			if err != nil {
				w.log.Error("watch new directory", "path", path, "error", err)
			}
			w.track(files...)
			return files
		}
		if !info.Mode().IsRegular() || !w.matcher.Match(path) {
			return nil
		}
		w.track(path)
		return []string{path}

	case event.Has(fsnotify.Write):
		if !w.matcher.Match(path) {
			return nil
		}
		w.track(path)
		return []string{path}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.watched, path)
		w.mu.Unlock()
	}
	return nil
}

func (w *Watcher) track(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.watched[p] = struct{}{}
	}
}
