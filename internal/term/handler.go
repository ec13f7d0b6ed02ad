package term

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Prefix starts every diagnostic line.
const Prefix = "[adorable-css]"

// Handler is a slog.Handler writing single human readable lines:
//
//	[adorable-css] File changed : src/App.svelte
//	[adorable-css] error read failed path=a.html error="permission denied"
//
// Info lines carry no level label; warnings and errors are labelled and
// coloured when colours are enabled.
type Handler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	useColors bool
	attrs     []slog.Attr
	group     string
}

// NewHandler returns a Handler writing to w. Records below level are dropped.
func NewHandler(w io.Writer, level slog.Leveler, useColors bool) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{mu: &sync.Mutex{}, w: w, level: level, useColors: useColors}
}

// NewLogger returns a logger for the CLI. Verbose output shows info records;
// otherwise only errors are printed.
func NewLogger(w io.Writer, verbose, useColors bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(NewHandler(w, level, useColors))
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(RenderStyle(StyleCyan, Prefix, h.useColors))
	b.WriteByte(' ')

	switch {
	case r.Level >= slog.LevelError:
		b.WriteString(RenderStyle(StyleRed, "error", h.useColors))
		b.WriteByte(' ')
	case r.Level >= slog.LevelWarn:
		b.WriteString(RenderStyle(StyleYellow, "warning", h.useColors))
		b.WriteByte(' ')
	case r.Level < slog.LevelInfo:
		b.WriteString(RenderStyle(StyleGray, "debug", h.useColors))
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.qualify(a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) writeAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(b, slog.Attr{Key: a.Key + "." + ga.Key, Value: ga.Value})
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(RenderStyle(StyleGray, a.Key+"=", h.useColors))
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") || val == "" {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteString(val)
}

func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}
