// Package htmldoc implements livesync.Document over a parsed HTML tree.
//
// The tree has no script engine: callers change it through Mutate and
// SetReadyState, which notify observers and listeners synchronously.
package htmldoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yacobolo/adorable/livesync"
)

var _ livesync.Document = (*Document)(nil)

// Ready states, as reported by document.readyState.
const (
	StateLoading     = "loading"
	StateInteractive = "interactive"
	StateComplete    = "complete"
)

var errNoBody = errors.New("htmldoc: document has no body")

// Document is an in-memory HTML document.
type Document struct {
	mu         sync.Mutex
	root       *html.Node
	readyState string

	nextID    int
	observers map[int]func()
	listeners map[int]func()
}

// Parse reads a complete HTML document. The parser always creates the head
// and body elements, so the result has a body and the complete ready state.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return newDocument(root, StateComplete), nil
}

// NewLoading returns a document that is still loading: an html element
// holding an empty head and no body yet.
func NewLoading() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := element(atom.Html)
	htmlEl.AppendChild(element(atom.Head))
	root.AppendChild(htmlEl)
	return newDocument(root, StateLoading)
}

func newDocument(root *html.Node, state string) *Document {
	return &Document{
		root:       root,
		readyState: state,
		observers:  make(map[int]func()),
		listeners:  make(map[int]func()),
	}
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// ReadyState returns the current ready state.
func (d *Document) ReadyState() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readyState
}

// SetReadyState moves the document to state and notifies ready state
// listeners when it changed.
func (d *Document) SetReadyState(state string) {
	d.mu.Lock()
	if d.readyState == state {
		d.mu.Unlock()
		return
	}
	d.readyState = state
	callbacks := collect(d.listeners)
	d.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Mutate runs fn with exclusive access to the tree, then notifies mutation
// observers if the document has a body.
func (d *Document) Mutate(fn func(root *html.Node)) {
	d.mu.Lock()
	fn(d.root)
	var callbacks []func()
	if find(d.root, atom.Body) != nil {
		callbacks = collect(d.observers)
	}
	d.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// Body returns the body element, creating it under the html element when
// missing. It must be called from inside Mutate.
func Body(root *html.Node) *html.Node {
	if body := find(root, atom.Body); body != nil {
		return body
	}
	htmlEl := find(root, atom.Html)
	if htmlEl == nil {
		htmlEl = element(atom.Html)
		root.AppendChild(htmlEl)
	}
	body := element(atom.Body)
	htmlEl.AppendChild(body)
	return body
}

// NewElement returns an element with the given tag and class attribute.
func NewElement(tag, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: atom.Lookup([]byte(tag)), Data: tag}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

// HasBody implements livesync.Document.
func (d *Document) HasBody(context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return find(d.root, atom.Body) != nil, nil
}

// ClassNames implements livesync.Document.
func (d *Document) ClassNames(context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var classes []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Namespace == "" && a.Key == "class" {
					classes = append(classes, strings.Fields(a.Val)...)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return classes, nil
}

// InjectStyle implements livesync.Document.
func (d *Document) InjectStyle(_ context.Context, css string) (livesync.StyleElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	head := find(d.root, atom.Head)
	if head == nil {
		htmlEl := find(d.root, atom.Html)
		if htmlEl == nil {
			return nil, errors.New("htmldoc: document has no html element")
		}
		head = element(atom.Head)
		htmlEl.InsertBefore(head, htmlEl.FirstChild)
	}

	node := element(atom.Style)
	node.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(node)
	return &styleElement{doc: d, node: node}, nil
}

// ObserveMutations implements livesync.Document. Every Mutate call counts as
// a relevant mutation.
func (d *Document) ObserveMutations(_ context.Context, fn func()) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if find(d.root, atom.Body) == nil {
		return nil, errNoBody
	}
	return d.register(d.observers, fn), nil
}

// OnReadyStateChange implements livesync.Document.
func (d *Document) OnReadyStateChange(_ context.Context, fn func()) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.register(d.listeners, fn), nil
}

// register must be called with d.mu held.
func (d *Document) register(m map[int]func(), fn func()) func() {
	id := d.nextID
	d.nextID++
	m[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(m, id)
	}
}

type styleElement struct {
	doc  *Document
	node *html.Node
}

func (s *styleElement) SetText(_ context.Context, css string) error {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	for c := s.node.FirstChild; c != nil; {
		next := c.NextSibling
		s.node.RemoveChild(c)
		c = next
	}
	s.node.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	return nil
}

func collect(m map[int]func()) []func() {
	fns := make([]func(), 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	return fns
}

// find returns the first element with the given atom in document order.
func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}
