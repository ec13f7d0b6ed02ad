// Package livesync keeps a style element inside a live document in sync with
// the atoms present in its DOM.
//
// A Synchronizer hides the body until the first stylesheet is written, then
// rescans the whole document on every class or child list mutation and
// rewrites the stylesheet from scratch.
package livesync

import "context"

// HideBodyRule is the style text written before the first scan completes.
const HideBodyRule = "body {display:none!important}"

// StyleElement is a style element owned by a Synchronizer.
type StyleElement interface {
	// SetText replaces the text content of the element.
	SetText(ctx context.Context, css string) error
}

// Document is the view of a DOM that a Synchronizer needs.
type Document interface {
	// HasBody reports whether the body element exists yet.
	HasBody(ctx context.Context) (bool, error)
	// ClassNames returns every class token of every element carrying a class
	// attribute, in document order.
	ClassNames(ctx context.Context) ([]string, error)
	// InjectStyle appends a style element holding css to the head.
	InjectStyle(ctx context.Context, css string) (StyleElement, error)
	// ObserveMutations calls fn after class attribute changes and child list
	// changes anywhere below the body. Call stop to disconnect.
	ObserveMutations(ctx context.Context, fn func()) (stop func(), err error)
	// OnReadyStateChange calls fn whenever the document ready state changes.
	OnReadyStateChange(ctx context.Context, fn func()) (stop func(), err error)
}
