// Package adorable turns atomic utility class names found in source files
// into a single generated stylesheet.
//
// Atoms such as p(4), bg(red) or hover:c(blue) are collected from class
// attributes, deduplicated, resolved to CSS rules and written after a reset
// stylesheet.
//
// # Static build
//
// Scan every matching file once and write the stylesheet:
//
//	cfg := adorable.DefaultConfig()
//	cfg.Root = "src"
//	cfg.Out = "public/adorable.css"
//	result, err := adorable.Build(ctx, cfg)
//
// # Watch build
//
// Keep the stylesheet in sync with the source tree. The change source is
// usually an fsnotify watcher from internal/fswatch:
//
//	w := adorable.NewWatcher(cfg, source)
//	err := w.Run(ctx)
//
// # Live synchronization
//
// The livesync package keeps a style element inside a running document in
// sync with the classes present in its DOM.
//
// # CLI Tool
//
// Install with:
//
//	go install github.com/yacobolo/adorable/cmd/adorable@latest
package adorable

// Public API:
// - Build(ctx, cfg) (*BuildResult, error)
// - NewWatcher(cfg, source) *Watcher
// - Compose(atoms, opts) Stylesheet
// - ReadAtoms(path) ([]string, error), ReadEntries(ctx, paths) ([]Entry, error)
// - Discover(cfg) ([]string, error)
