package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config controls how Chrome is reached.
type Config struct {
	// RemoteURL connects to a running Chrome (ws:// or http://host:port).
	// Empty launches a local Chrome via launcher.
	RemoteURL string
	// Headful shows the browser window of a launched Chrome.
	Headful bool
	Logger  *slog.Logger
}

// Browser is a connected Chrome instance.
type Browser struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	log     *slog.Logger
}

// Launch starts or connects to Chrome.
func Launch(ctx context.Context, cfg Config) (*Browser, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var (
		wsURL string
		lnch  *launcher.Launcher
	)
	if cfg.RemoteURL != "" {
		u, err := launcher.ResolveURL(cfg.RemoteURL)
		if err != nil {
			return nil, fmt.Errorf("browser: resolve %s: %w", cfg.RemoteURL, err)
		}
		wsURL = u
		log.Info("connecting to remote browser", "url", wsURL)
	} else {
		lnch = launcher.New().Context(ctx).Headless(!cfg.Headful)
		if bin, ok := launcher.LookPath(); ok {
			lnch = lnch.Bin(bin)
		}
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		log.Info("launched local chrome", "url", wsURL, "headful", cfg.Headful)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Kill()
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return &Browser{browser: b, lnch: lnch, log: log}, nil
}

// Open navigates a new tab to url and waits for the load event.
func (b *Browser) Open(ctx context.Context, url string) (*Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("browser: open %s: %w", url, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		b.log.Warn("wait load failed", "url", url, "error", err)
	}
	return NewPage(page), nil
}

// Close disconnects and, for a launched Chrome, kills the process and
// removes its profile directory.
func (b *Browser) Close() error {
	err := b.browser.Close()
	if b.lnch != nil {
		b.lnch.Cleanup()
	}
	return err
}
