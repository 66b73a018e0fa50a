package dom

import (
	"fmt"
	"strings"
)

// Selector is a parsed compound simple selector: an optional tag name plus
// id, class, and attribute conditions that must all hold on one element.
// This is the small declarative subset the composer's probing rules use;
// combinators are not supported.
type Selector struct {
	raw   string
	tag   string
	conds []condition
}

type condition struct {
	kind  condKind
	name  string
	value string
}

type condKind int

const (
	condID condKind = iota
	condClass
	condAttrPresent
	condAttrEquals
	condAttrContains
)

// ParseSelector parses a compound simple selector such as
// `input[name="subjectbox"]`, `[aria-label*="Subject"]`, `.Am.Al.editable`
// or `div[role="textbox"]`.
func ParseSelector(s string) (Selector, error) {
	sel := Selector{raw: s}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return sel, fmt.Errorf("dom: empty selector")
	}

	// Leading tag name.
	i := 0
	for i < len(rest) && rest[i] != '#' && rest[i] != '.' && rest[i] != '[' {
		i++
	}
	sel.tag = strings.ToLower(rest[:i])
	rest = rest[i:]

	for rest != "" {
		switch rest[0] {
		case '#', '.':
			marker := rest[0]
			j := 1
			for j < len(rest) && rest[j] != '#' && rest[j] != '.' && rest[j] != '[' {
				j++
			}
			name := rest[1:j]
			if name == "" {
				return sel, fmt.Errorf("dom: bad selector %q", s)
			}
			kind := condID
			if marker == '.' {
				kind = condClass
			}
			sel.conds = append(sel.conds, condition{kind: kind, name: name})
			rest = rest[j:]
		case '[':
			j := strings.IndexByte(rest, ']')
			if j < 0 {
				return sel, fmt.Errorf("dom: unterminated attribute in %q", s)
			}
			cond, err := parseAttrCondition(rest[1:j])
			if err != nil {
				return sel, err
			}
			sel.conds = append(sel.conds, cond)
			rest = rest[j+1:]
		default:
			return sel, fmt.Errorf("dom: unsupported selector %q", s)
		}
	}
	return sel, nil
}

func parseAttrCondition(body string) (condition, error) {
	if body == "" {
		return condition{}, fmt.Errorf("dom: empty attribute condition")
	}
	name, value, found := strings.Cut(body, "*=")
	kind := condAttrContains
	if !found {
		name, value, found = strings.Cut(body, "=")
		kind = condAttrEquals
	}
	if !found {
		return condition{kind: condAttrPresent, name: body}, nil
	}
	value = strings.Trim(value, `"'`)
	return condition{kind: kind, name: name, value: value}, nil
}

// String returns the selector's source text.
func (s Selector) String() string { return s.raw }

// Matches reports whether the element satisfies the selector.
func (s Selector) Matches(e *Element) bool {
	if s.tag != "" && e.Tag != s.tag {
		return false
	}
	for _, c := range s.conds {
		switch c.kind {
		case condID:
			if e.ID() != c.name {
				return false
			}
		case condClass:
			if !e.hasClass(c.name) {
				return false
			}
		case condAttrPresent:
			if !e.HasAttr(c.name) {
				return false
			}
		case condAttrEquals:
			if e.Attr(c.name) != c.value {
				return false
			}
		case condAttrContains:
			if !e.HasAttr(c.name) || !strings.Contains(e.Attr(c.name), c.value) {
				return false
			}
		}
	}
	return true
}

// Query returns every element in the subtree, in document order, matching
// the selector. Malformed selectors match nothing.
func (e *Element) Query(selector string) []*Element {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	return e.QuerySelector(sel)
}

// QuerySelector is Query over an already-parsed selector.
func (e *Element) QuerySelector(sel Selector) []*Element {
	var out []*Element
	e.walk(func(n *Element) bool {
		if sel.Matches(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Query searches the whole document.
func (d *Document) Query(selector string) []*Element {
	return d.root.Query(selector)
}

// QueryFirst returns the first match in the document, or nil.
func (d *Document) QueryFirst(selector string) *Element {
	if matches := d.Query(selector); len(matches) > 0 {
		return matches[0]
	}
	return nil
}
