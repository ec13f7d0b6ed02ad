// Package browser drives a Chrome page through go-rod and exposes it as a
// livesync.Document.
package browser

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"

	"github.com/yacobolo/adorable/livesync"
)

var _ livesync.Document = (*Page)(nil)

const (
	hasBodyJS = `() => document.body !== null`

	classNamesJS = `() => {
		const out = [];
		for (const el of document.querySelectorAll('*[class]')) {
			for (const c of el.classList) out.push(c);
		}
		return out;
	}`

	injectStyleJS = `(id, css) => {
		const el = document.createElement('style');
		el.setAttribute('data-adorable', id);
		el.textContent = css;
		document.head.appendChild(el);
	}`

	setStyleTextJS = `(id, css) => {
		const el = document.querySelector('style[data-adorable="' + id + '"]');
		if (el === null) return false;
		el.textContent = css;
		return true;
	}`

	observeJS = `(fn) => {
		const obs = new MutationObserver(() => { window[fn](); });
		obs.observe(document.body, {
			attributes: true,
			childList: true,
			subtree: true,
			attributeOldValue: true,
			attributeFilter: ['class'],
		});
		window[fn + '_stop'] = () => obs.disconnect();
	}`

	readyStateJS = `(fn) => {
		const listener = () => { window[fn](); };
		document.addEventListener('readystatechange', listener);
		window[fn + '_stop'] = () => document.removeEventListener('readystatechange', listener);
	}`

	stopJS = `(fn) => {
		const stop = window[fn + '_stop'];
		if (stop) stop();
		delete window[fn + '_stop'];
	}`
)

var nextID atomic.Int64

// Page is a livesync.Document backed by a rod page.
type Page struct {
	page *rod.Page
}

// NewPage wraps page.
func NewPage(page *rod.Page) *Page {
	return &Page{page: page}
}

// HasBody implements livesync.Document.
func (p *Page) HasBody(ctx context.Context) (bool, error) {
	res, err := p.page.Context(ctx).Eval(hasBodyJS)
	if err != nil {
		return false, fmt.Errorf("browser: check body: %w", err)
	}
	return res.Value.Bool(), nil
}

// ClassNames implements livesync.Document.
func (p *Page) ClassNames(ctx context.Context) ([]string, error) {
	res, err := p.page.Context(ctx).Eval(classNamesJS)
	if err != nil {
		return nil, fmt.Errorf("browser: scan classes: %w", err)
	}
	arr := res.Value.Arr()
	classes := make([]string, 0, len(arr))
	for _, v := range arr {
		classes = append(classes, v.Str())
	}
	return classes, nil
}

// InjectStyle implements livesync.Document.
func (p *Page) InjectStyle(ctx context.Context, css string) (livesync.StyleElement, error) {
	id := fmt.Sprintf("adorable-%d", nextID.Add(1))
	if _, err := p.page.Context(ctx).Eval(injectStyleJS, id, css); err != nil {
		return nil, fmt.Errorf("browser: inject style: %w", err)
	}
	return &styleElement{page: p.page, id: id}, nil
}

// ObserveMutations implements livesync.Document.
func (p *Page) ObserveMutations(ctx context.Context, fn func()) (func(), error) {
	return p.listen(ctx, "adorableMutation", observeJS, fn)
}

// OnReadyStateChange implements livesync.Document.
func (p *Page) OnReadyStateChange(ctx context.Context, fn func()) (func(), error) {
	return p.listen(ctx, "adorableReady", readyStateJS, fn)
}

// listen exposes fn to the page under a fresh name and runs setup with that
// name. The returned stop runs the teardown registered by setup and removes
// the binding.
func (p *Page) listen(ctx context.Context, prefix, setup string, fn func()) (func(), error) {
	name := fmt.Sprintf("%s%d", prefix, nextID.Add(1))

	unbind, err := p.page.Expose(name, func(gson.JSON) (interface{}, error) {
		fn()
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("browser: expose %s: %w", name, err)
	}

	if _, err := p.page.Context(ctx).Eval(setup, name); err != nil {
		_ = unbind()
		return nil, fmt.Errorf("browser: register %s: %w", name, err)
	}

	stop := func() {
		_, _ = p.page.Eval(stopJS, name)
		_ = unbind()
	}
	return stop, nil
}

type styleElement struct {
	page *rod.Page
	id   string
}

func (s *styleElement) SetText(ctx context.Context, css string) error {
	res, err := s.page.Context(ctx).Eval(setStyleTextJS, s.id, css)
	if err != nil {
		return fmt.Errorf("browser: set style text: %w", err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("browser: style element %s was removed", s.id)
	}
	return nil
}
