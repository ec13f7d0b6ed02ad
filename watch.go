package adorable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// EventKind identifies a WatchEvent.
type EventKind int

const (
	// EventReady carries the full set of matched paths once the source has
	// finished its initial scan.
	EventReady EventKind = iota
	// EventChange reports that the file at Path was created or modified.
	EventChange
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventChange:
		return "change"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// WatchEvent is emitted by a ChangeSource.
type WatchEvent struct {
	Kind  EventKind
	Path  string   // EventChange only
	Paths []string // EventReady only
}

// ChangeSource reports file system activity below a root.
type ChangeSource interface {
	// Start begins watching. It emits exactly one EventReady before any
	// EventChange it wants processed.
	Start(ctx context.Context) error
	Events() <-chan WatchEvent
	Errors() <-chan error
	Close() error
}

// State is the lifecycle state of a Watcher.
type State int32

const (
	// StateInitializing is the state until the ready event has been handled.
	StateInitializing State = iota
	// StateWatching means change events are applied to the cache.
	StateWatching
)

func (s State) String() string {
	if s == StateWatching {
		return "watching"
	}
	return "initializing"
}

// Watcher keeps the output stylesheet in sync with a source tree.
//
// The initial scan is a bulk build over the paths reported by the ready
// event. Each later change re-reads only the changed file, then recomposes
// the stylesheet from the whole cache. Deleted or renamed files keep their
// last atoms.
type Watcher struct {
	cfg    Config
	source ChangeSource
	log    *slog.Logger
	state  atomic.Int32

	mu         sync.Mutex // guards cache mutations, applied and generation
	cache      *EntryCache
	applied    map[string]uint64 // path -> sequence of the last change stored
	generation uint64
	seq        uint64 // owned by Run

	readAtoms func(path string) ([]string, error)

	writeMu sync.Mutex // serializes resolver calls
	written uint64

	wg sync.WaitGroup
}

// NewWatcher returns a Watcher reading change notifications from source.
func NewWatcher(cfg Config, source ChangeSource) *Watcher {
	cfg = cfg.withDefaults()
	return &Watcher{
		cfg:       cfg,
		source:    source,
		log:       cfg.Logger,
		cache:     NewEntryCache(),
		applied:   make(map[string]uint64),
		readAtoms: ReadAtoms,
	}
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Cache returns the entry cache owned by the watcher.
func (w *Watcher) Cache() *EntryCache {
	return w.cache
}

// Run processes events until ctx is cancelled or the source closes its
// event channel. A failed initial scan or initial write is returned; later
// failures are logged and only drop the event that caused them.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.source.Start(ctx); err != nil {
		_ = w.source.Close()
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() {
		w.wg.Wait()
		if err := w.source.Close(); err != nil {
			w.log.Error("close watcher", "error", err)
		}
	}()

	events, errs := w.source.Events(), w.source.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.Error("watch error", "error", err)

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case EventReady:
				if err := w.handleReady(ctx, ev.Paths); err != nil {
					return err
				}
			case EventChange:
				// Changes before ready are covered by the initial scan.
				if w.State() != StateWatching {
					continue
				}
				// Reads finish in any order; the sequence keeps an older
				// read from replacing a newer one.
				w.seq++
				w.wg.Add(1)
				go func(path string, seq uint64) {
					defer w.wg.Done()
					w.handleChange(ctx, path, seq)
				}(ev.Path, w.seq)
			}
		}
	}
}

func (w *Watcher) handleReady(ctx context.Context, paths []string) error {
	w.log.Info(fmt.Sprintf("Watching files under : %s", w.cfg.Root))

	entries, err := ReadEntries(ctx, paths)
	if err != nil {
		return fmt.Errorf("initial scan: %w", err)
	}

	w.mu.Lock()
	w.cache.Replace(entries)
	w.generation++
	gen := w.generation
	atoms := w.cache.Atoms()
	w.mu.Unlock()

	w.state.Store(int32(StateWatching))

	if err := w.write(ctx, gen, atoms); err != nil {
		return fmt.Errorf("initial write: %w", err)
	}
	return nil
}

func (w *Watcher) handleChange(ctx context.Context, path string, seq uint64) {
	w.log.Info(fmt.Sprintf("File changed : %s", path))

	atoms, err := w.readAtoms(path)
	if errors.Is(err, ErrNotAFile) {
		return
	}
	if err != nil {
		w.log.Error("read failed", "path", path, "error", err)
		return
	}

	w.mu.Lock()
	if w.applied[path] > seq {
		w.mu.Unlock()
		w.log.Debug("skipping stale read", "path", path)
		return
	}
	w.applied[path] = seq
	w.cache.Set(path, atoms)
	w.generation++
	gen := w.generation
	all := w.cache.Atoms()
	w.mu.Unlock()

	if err := w.write(ctx, gen, all); err != nil {
		w.log.Error("write failed", "path", path, "error", err)
	}
}

// write composes atoms and hands the result to the resolver unless a newer
// generation has already been written.
func (w *Watcher) write(ctx context.Context, gen uint64, atoms []string) error {
	sheet := Compose(atoms, w.cfg.composeOptions())
	if sheet.MinifyErr != nil {
		w.log.Warn("minify failed, writing unminified output", "error", sheet.MinifyErr)
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if gen < w.written {
		return nil
	}
	if err := w.cfg.Resolver(ctx, sheet.CSS); err != nil {
		return err
	}
	w.written = gen
	return nil
}
