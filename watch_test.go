package adorable

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a ChangeSource driven by the test.
type fakeSource struct {
	events chan WatchEvent
	errs   chan error

	mu     sync.Mutex
	closed bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events: make(chan WatchEvent, 16),
		errs:   make(chan error, 16),
	}
}

func (s *fakeSource) Start(context.Context) error { return nil }
func (s *fakeSource) Events() <-chan WatchEvent { return s.events }
func (s *fakeSource) Errors() <-chan error { return s.errs }

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// recorder collects every stylesheet handed to the resolver.
type recorder struct {
	writes chan string
}

func newRecorder() *recorder {
	return &recorder{writes: make(chan string, 16)}
}

func (r *recorder) resolve(_ context.Context, css string) error {
	r.writes <- css
	return nil
}

func (r *recorder) next(t *testing.T) string {
	t.Helper()
	select {
	case css := <-r.writes:
		return css
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a write")
		return ""
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case css := <-r.writes:
		t.Fatalf("unexpected write: %q", css)
	case <-time.After(100 * time.Millisecond):
	}
}

type watchHarness struct {
	dir    string
	source *fakeSource
	rec    *recorder
	w      *Watcher
	cancel context.CancelFunc
	done   chan error
}

func startWatcher(t *testing.T, files map[string]string) *watchHarness {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files)

	h := &watchHarness{
		dir:    dir,
		source: newFakeSource(),
		rec:    newRecorder(),
		done:   make(chan error, 1),
	}
	h.w = NewWatcher(Config{Root: dir, NoReset: true, Watch: true, Resolver: h.rec.resolve}, h.source)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *watchHarness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func TestWatcher_InitialScanAndChange(t *testing.T) {
	h := startWatcher(t, map[string]string{
		"a.html": `<div class="p(4)">`,
		"b.html": `<div class="m(2)">`,
	})
	assert.Equal(t, StateInitializing, h.w.State())

	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html"), h.path("b.html")}}
	assert.Equal(t, ".p\\(4\\){padding:4px}\n.m\\(2\\){margin:2px}", h.rec.next(t))
	assert.Equal(t, StateWatching, h.w.State())

	require.NoError(t, os.WriteFile(h.path("a.html"), []byte(`<div class="p(8)">`), 0o644))
	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("a.html")}
	assert.Equal(t, ".p\\(8\\){padding:8px}\n.m\\(2\\){margin:2px}", h.rec.next(t))

	atoms, ok := h.w.Cache().Get(h.path("a.html"))
	require.True(t, ok)
	assert.Equal(t, []string{"p(8)"}, atoms)
}

func TestWatcher_NewFileIsAdded(t *testing.T) {
	h := startWatcher(t, map[string]string{"a.html": `<div class="p(4)">`})
	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html")}}
	h.rec.next(t)

	writeFiles(t, h.dir, map[string]string{"c.html": `<div class="flex">`})
	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("c.html")}
	assert.Equal(t, ".p\\(4\\){padding:4px}\n.flex{display:flex}", h.rec.next(t))
	assert.Equal(t, 2, h.w.Cache().Len())
}

func TestWatcher_ChangesBeforeReadyAreIgnored(t *testing.T) {
	h := startWatcher(t, map[string]string{"a.html": `<div class="p(4)">`})

	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("a.html")}
	h.rec.none(t)
	assert.Equal(t, 0, h.w.Cache().Len())

	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html")}}
	assert.Equal(t, ".p\\(4\\){padding:4px}", h.rec.next(t))
}

func TestWatcher_ReadErrorDropsEvent(t *testing.T) {
	h := startWatcher(t, map[string]string{"a.html": `<div class="p(4)">`})
	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html")}}
	h.rec.next(t)

	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("missing.html")}
	h.rec.none(t)

	require.NoError(t, os.Mkdir(h.path("dir.html"), 0o755))
	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("dir.html")}
	h.rec.none(t)

	// The watcher keeps going after a dropped event.
	require.NoError(t, os.WriteFile(h.path("a.html"), []byte(`<div class="m(1)">`), 0o644))
	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("a.html")}
	assert.Equal(t, ".m\\(1\\){margin:1px}", h.rec.next(t))
}

func TestWatcher_DeletedFileKeepsAtoms(t *testing.T) {
	h := startWatcher(t, map[string]string{
		"a.html": `<div class="p(4)">`,
		"b.html": `<div class="m(2)">`,
	})
	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html"), h.path("b.html")}}
	h.rec.next(t)

	require.NoError(t, os.Remove(h.path("b.html")))
	require.NoError(t, os.WriteFile(h.path("a.html"), []byte(`<div class="p(6)">`), 0o644))
	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("a.html")}
	assert.Equal(t, ".p\\(6\\){padding:6px}\n.m\\(2\\){margin:2px}", h.rec.next(t))
}

func TestWatcher_SourceErrorsAreNotFatal(t *testing.T) {
	h := startWatcher(t, map[string]string{"a.html": `<div class="p(4)">`})
	h.source.errs <- errors.New("inotify overflow")
	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html")}}
	assert.Equal(t, ".p\\(4\\){padding:4px}", h.rec.next(t))
}

func TestWatcher_InitialScanFailure(t *testing.T) {
	source := newFakeSource()
	w := NewWatcher(Config{Root: t.TempDir(), Resolver: newRecorder().resolve}, source)

	source.events <- WatchEvent{Kind: EventReady, Paths: []string{filepath.Join(t.TempDir(), "missing.html")}}
	err := w.Run(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, source.isClosed())
}

func TestWatcher_StopsWhenSourceCloses(t *testing.T) {
	source := newFakeSource()
	w := NewWatcher(Config{Root: t.TempDir(), Resolver: newRecorder().resolve}, source)
	close(source.events)

	require.NoError(t, w.Run(context.Background()))
	assert.True(t, source.isClosed())
}

func TestWatcher_ConvergesToLastWrite(t *testing.T) {
	h := startWatcher(t, map[string]string{"a.html": `<div class="p(1)">`})
	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html")}}
	h.rec.next(t)

	var names []string
	for _, name := range []string{"b.html", "c.html", "d.html", "e.html"} {
		writeFiles(t, h.dir, map[string]string{name: `<div class="flex">`})
		names = append(names, name)
	}
	for _, name := range names {
		h.source.events <- WatchEvent{Kind: EventChange, Path: h.path(name)}
	}

	// Stale generations may be skipped; the final write reflects every file.
	want := ".p\\(1\\){padding:1px}\n.flex{display:flex}"
	var last string
	require.Eventually(t, func() bool {
		for {
			select {
			case css := <-h.rec.writes:
				last = css
			default:
				return last == want && h.w.Cache().Len() == 5
			}
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_StaleReadDoesNotOverwriteNewer(t *testing.T) {
	h := startWatcher(t, map[string]string{"a.html": `<div class="p(1)">`})
	h.source.events <- WatchEvent{Kind: EventReady, Paths: []string{h.path("a.html")}}
	assert.Equal(t, ".p\\(1\\){padding:1px}", h.rec.next(t))

	// The first read captures the old content and finishes last.
	entered, release := make(chan struct{}), make(chan struct{})
	var calls atomic.Int32
	h.w.readAtoms = func(path string) ([]string, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return []string{"p(1)"}, nil
		}
		return ReadAtoms(path)
	}

	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("a.html")}
	<-entered

	require.NoError(t, os.WriteFile(h.path("a.html"), []byte(`<div class="p(2)">`), 0o644))
	h.source.events <- WatchEvent{Kind: EventChange, Path: h.path("a.html")}
	assert.Equal(t, ".p\\(2\\){padding:2px}", h.rec.next(t))

	close(release)
	h.w.wg.Wait()
	h.rec.none(t)

	atoms, ok := h.w.Cache().Get(h.path("a.html"))
	require.True(t, ok)
	assert.Equal(t, []string{"p(2)"}, atoms)
}
