package livesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yacobolo/adorable"
)

var (
	// ErrNoDocument is returned by Attach when the synchronizer has no document.
	ErrNoDocument = errors.New("livesync: no document")
	// ErrNotAttached is returned by Sync before Attach succeeded.
	ErrNotAttached = errors.New("livesync: not attached")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("livesync: closed")
)

// Options configures a Synchronizer.
type Options struct {
	NoReset bool
	Minify  bool
	Logger  *slog.Logger
}

// Synchronizer owns one style element of a Document and rewrites it from
// a full DOM scan after every relevant mutation.
//
// Mutations arriving while a sync is pending are folded into that sync.
// Syncs run one at a time on a dedicated goroutine started by Attach.
type Synchronizer struct {
	doc  Document
	opts Options
	log  *slog.Logger

	syncMu sync.Mutex // serializes scans and style writes

	mu           sync.Mutex
	attached     bool
	closed       bool
	observing    bool
	style        StyleElement
	atoms        []string
	css          string
	syncs        int
	stopObserver func()
	stopReady    func()
	cancel       context.CancelFunc

	syncCh      chan struct{}
	bootstrapCh chan struct{}
	wg          sync.WaitGroup
}

// New returns a Synchronizer for doc. Nothing touches the document until
// Attach is called.
func New(doc Document, opts Options) *Synchronizer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		doc:         doc,
		opts:        opts,
		log:         log,
		syncCh:      make(chan struct{}, 1),
		bootstrapCh: make(chan struct{}, 1),
	}
}

// Attach injects the style element with the body hiding rule, listens for
// ready state changes and runs the first sync. When the body already exists
// the mutation observer is attached right away; otherwise it is attached on
// the first ready state change that finds a body. Calling Attach again is a
// no-op.
func (s *Synchronizer) Attach(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoDocument
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.attached {
		s.mu.Unlock()
		return nil
	}
	s.attached = true
	s.mu.Unlock()

	style, err := s.doc.InjectStyle(ctx, HideBodyRule)
	if err != nil {
		s.mu.Lock()
		s.attached = false
		s.mu.Unlock()
		return fmt.Errorf("inject style: %w", err)
	}

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.style = style
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(workerCtx)

	stopReady, err := s.doc.OnReadyStateChange(ctx, s.onReadyStateChange)
	if err != nil {
		return fmt.Errorf("listen for ready state: %w", err)
	}
	s.mu.Lock()
	if s.observing {
		// A ready state change already attached the observer.
		s.mu.Unlock()
		stopReady()
	} else {
		s.stopReady = stopReady
		s.mu.Unlock()
	}

	return s.bootstrap(ctx)
}

// Sync rescans the document and rewrites the style element.
func (s *Synchronizer) Sync(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.mu.Lock()
	style, closed := s.style, s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if style == nil {
		return ErrNotAttached
	}

	classes, err := s.doc.ClassNames(ctx)
	if err != nil {
		return fmt.Errorf("scan document: %w", err)
	}
	atoms := adorable.Dedupe(classes)

	sheet := adorable.Compose(atoms, adorable.ComposeOptions{NoReset: s.opts.NoReset, Minify: s.opts.Minify})
	if sheet.MinifyErr != nil {
		s.log.Warn("minify failed, using unminified css", "error", sheet.MinifyErr)
	}
	if err := style.SetText(ctx, sheet.CSS); err != nil {
		return fmt.Errorf("write style: %w", err)
	}

	s.mu.Lock()
	s.atoms = atoms
	s.css = sheet.CSS
	s.syncs++
	s.mu.Unlock()

	s.log.Debug("synced", "atoms", len(atoms), "rules", sheet.Rules)
	return nil
}

// Atoms returns the class tokens found by the last sync.
func (s *Synchronizer) Atoms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.atoms...)
}

// CSS returns the style text written by the last sync.
func (s *Synchronizer) CSS() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.css
}

// Close detaches the observer and the ready state listener and stops the
// sync goroutine. The style element is left in place.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	stops := []func(){s.stopObserver, s.stopReady}
	s.stopObserver, s.stopReady = nil, nil
	cancel := s.cancel
	s.mu.Unlock()

	for _, stop := range stops {
		if stop != nil {
			stop()
		}
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	return nil
}

// bootstrap syncs, attaches the observer once a body exists and drops the
// ready state listener once the observer is attached.
func (s *Synchronizer) bootstrap(ctx context.Context) error {
	if err := s.Sync(ctx); err != nil {
		return err
	}

	hasBody, err := s.doc.HasBody(ctx)
	if err != nil {
		return fmt.Errorf("check body: %w", err)
	}

	s.mu.Lock()
	attach := hasBody && !s.observing && !s.closed
	if attach {
		s.observing = true
	}
	s.mu.Unlock()

	if attach {
		stop, err := s.doc.ObserveMutations(ctx, s.notify)
		if err != nil {
			s.mu.Lock()
			s.observing = false
			s.mu.Unlock()
			return fmt.Errorf("observe mutations: %w", err)
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			stop()
			return nil
		}
		s.stopObserver = stop
		s.mu.Unlock()
		s.log.Debug("observer attached")
	}

	s.mu.Lock()
	var stopReady func()
	if s.observing {
		stopReady, s.stopReady = s.stopReady, nil
	}
	s.mu.Unlock()
	if stopReady != nil {
		stopReady()
	}
	return nil
}

// notify schedules a sync unless one is already pending.
func (s *Synchronizer) notify() {
	select {
	case s.syncCh <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) onReadyStateChange() {
	select {
	case s.bootstrapCh <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) run(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.syncCh:
			if err := s.Sync(ctx); err != nil && ctx.Err() == nil && !errors.Is(err, ErrClosed) {
				s.log.Error("sync failed", "error", err)
			}
		case <-s.bootstrapCh:
			if err := s.bootstrap(ctx); err != nil && ctx.Err() == nil && !errors.Is(err, ErrClosed) {
				s.log.Error("bootstrap failed", "error", err)
			}
		}
	}
}
