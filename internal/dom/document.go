package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ReadyState mirrors the host document's load progress.
type ReadyState string

const (
	ReadyStateLoading  ReadyState = "loading"
	ReadyStateComplete ReadyState = "complete"
)

// Document is an explicit stand-in for the host page: an element tree with
// a location, a ready state, a focused element, and mutation observation.
// A Document and everything in it belongs to a single goroutine.
type Document struct {
	root    *Element
	body    *Element
	focused *Element

	location   string
	readyState ReadyState

	observers []func(added *Element)
	onReady   []func()
}

// Parse builds a Document from HTML markup, rooted at the parsed <html>
// element. The document starts in the complete ready state.
func Parse(location, markup string) (*Document, error) {
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}

	doc := &Document{location: location, readyState: ReadyStateComplete}
	doc.root = convert(doc, node)
	if doc.root == nil {
		return nil, fmt.Errorf("dom: no root element in markup")
	}
	doc.body = doc.findTag("body")
	if doc.body == nil {
		// html.Parse always synthesizes html/head/body, but guard anyway.
		doc.body = doc.root
	}
	return doc, nil
}

// MustParse is Parse for fixtures that are known to be well-formed.
func MustParse(location, markup string) *Document {
	doc, err := Parse(location, markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// convert maps an x/net/html node tree onto Elements, folding text nodes
// into their parent's text content.
func convert(doc *Document, n *html.Node) *Element {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if e := convert(doc, c); e != nil {
				return e
			}
		}
		return nil
	case html.ElementNode:
		e := &Element{doc: doc, Tag: n.Data, attrs: map[string]string{}}
		for _, a := range n.Attr {
			e.attrs[a.Key] = a.Val
		}
		e.value = e.attrs["value"]
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				e.text += c.Data
			case html.ElementNode:
				child := convert(doc, c)
				child.parent = e
				e.children = append(e.children, child)
			}
		}
		return e
	default:
		return nil
	}
}

// Root returns the document's root element.
func (d *Document) Root() *Element { return d.root }

// Body returns the document's body element.
func (d *Document) Body() *Element { return d.body }

// Focused returns the currently focused element, or nil.
func (d *Document) Focused() *Element { return d.focused }

// Location returns the document's URL.
func (d *Document) Location() string { return d.location }

// SetLocation changes the document's URL without replacing the tree,
// the way an SPA navigation does.
func (d *Document) SetLocation(url string) { d.location = url }

// State returns the document's ready state.
func (d *Document) State() ReadyState { return d.readyState }

// SetLoading puts the document back into the loading state. OnReady
// callbacks registered afterwards are deferred until FinishLoading.
func (d *Document) SetLoading() { d.readyState = ReadyStateLoading }

// OnReady runs fn once the document has finished loading; immediately when
// it already has.
func (d *Document) OnReady(fn func()) {
	if d.readyState == ReadyStateComplete {
		fn()
		return
	}
	d.onReady = append(d.onReady, fn)
}

// FinishLoading marks the document complete and runs deferred OnReady
// callbacks in registration order.
func (d *Document) FinishLoading() {
	if d.readyState == ReadyStateComplete {
		return
	}
	d.readyState = ReadyStateComplete
	pending := d.onReady
	d.onReady = nil
	for _, fn := range pending {
		fn()
	}
}

// Observe registers a mutation observer invoked with each element appended
// anywhere in the document. Delivery is synchronous on the owning
// goroutine; the host page's batched-but-same-thread semantics collapse to
// that here.
func (d *Document) Observe(fn func(added *Element)) {
	d.observers = append(d.observers, fn)
}

func (d *Document) notifyAdded(e *Element) {
	for _, fn := range d.observers {
		fn(e)
	}
}

// CreateElement builds a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, Tag: tag, attrs: map[string]string{}}
}

// ElementByID returns the first element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	d.root.walk(func(e *Element) bool {
		if e.ID() == id {
			found = e
			return false
		}
		return true
	})
	return found
}

func (d *Document) findTag(tag string) *Element {
	var found *Element
	d.root.walk(func(e *Element) bool {
		if e.Tag == tag {
			found = e
			return false
		}
		return true
	})
	return found
}
