package dom

import (
	"strconv"
	"strings"
)

// Element is a node in a Document. It carries the small slice of browser
// element behaviour the composer logic depends on: attributes, form value,
// rendered size, focus, and event dispatch.
type Element struct {
	doc      *Document
	parent   *Element
	children []*Element

	Tag   string
	attrs map[string]string

	value     string
	innerHTML string
	text      string

	listeners map[EventType][]Listener
}

// Rect is an element's rendered size.
type Rect struct {
	Width  int
	Height int
}

// Attr returns the value of an attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = map[string]string{}
	}
	e.attrs[name] = value
}

// ID returns the element's id attribute.
func (e *Element) ID() string { return e.attrs["id"] }

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.attrs["class"])
}

func (e *Element) hasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// Value returns the element's form value.
func (e *Element) Value() string { return e.value }

// SetValue sets the element's form value, as a script assigning to
// element.value would. No events fire; callers dispatch them explicitly.
func (e *Element) SetValue(v string) { e.value = v }

// HTML returns content previously assigned with SetHTML.
func (e *Element) HTML() string { return e.innerHTML }

// SetHTML replaces the element's rendered content. Existing children are
// discarded; the assigned markup is kept verbatim.
func (e *Element) SetHTML(markup string) {
	e.innerHTML = markup
	e.children = nil
}

// SetText sets the element's text content.
func (e *Element) SetText(s string) { e.text = s }

// Text returns the element's text content, including descendants.
func (e *Element) Text() string {
	var b strings.Builder
	b.WriteString(e.text)
	for _, c := range e.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's direct children.
func (e *Element) Children() []*Element { return e.children }

// Rect returns the element's rendered size. Size comes from width/height
// attributes or inline style pixel values; an element without either
// measures zero, standing in for a collapsed or hidden node.
func (e *Element) Rect() Rect {
	return Rect{
		Width:  e.dimension("width"),
		Height: e.dimension("height"),
	}
}

func (e *Element) dimension(name string) int {
	if v := e.attrs[name]; v != "" {
		if n, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil {
			return n
		}
	}
	for _, decl := range strings.Split(e.attrs["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) != name {
			continue
		}
		v = strings.TrimSpace(v)
		if n, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil {
			return n
		}
	}
	return 0
}

// Focus makes this element the document's focused element.
func (e *Element) Focus() {
	if e.doc != nil {
		e.doc.focused = e
	}
}

// Append attaches a child element and notifies the document's mutation
// observers, mirroring a childList mutation on the host page.
func (e *Element) Append(child *Element) {
	child.parent = e
	child.adopt(e.doc)
	e.children = append(e.children, child)
	if e.doc != nil {
		e.doc.notifyAdded(child)
	}
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

func (e *Element) adopt(doc *Document) {
	e.doc = doc
	for _, c := range e.children {
		c.adopt(doc)
	}
}

// walk visits the element and every descendant in document order until the
// visitor returns false.
func (e *Element) walk(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}
