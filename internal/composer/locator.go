package composer

import "github.com/sourcery-io/sourcery/internal/dom"

// FieldKind names a logical compose field.
type FieldKind string

const (
	FieldSubject FieldKind = "subject"
	FieldBody    FieldKind = "body"
)

// Compose bodies smaller than this are treated as collapsed editors
// (reply quotes, hidden drafts) and skipped.
const (
	minBodyHeight = 50
	minBodyWidth  = 200
)

// fieldSelectors holds the ranked selector candidates per provider and
// field, reflecting observed variability across the providers' own UI
// versions. Earlier entries are more specific and win.
var fieldSelectors = map[Provider]map[FieldKind][]string{
	ProviderGmail: {
		FieldSubject: {
			`input[name="subjectbox"]`,
			`[aria-label*="Subject"]`,
			`[placeholder*="Subject"]`,
			`.aoT`,
		},
		FieldBody: {
			`[aria-label*="Message Body"]`,
			`[contenteditable="true"]`,
			`.Am.Al.editable`,
			`.editable`,
			`div[role="textbox"]`,
		},
	},
	ProviderOutlook: {
		FieldSubject: {
			`[aria-label*="Subject"]`,
			`input[placeholder*="Subject"]`,
			`[data-testid*="subject"]`,
		},
		FieldBody: {
			`[contenteditable="true"]`,
			`[aria-label*="Message body"]`,
			`[role="textbox"]`,
		},
	},
}

// Locate finds the live element for a compose field by probing the
// provider's selector candidates in priority order. For the subject it
// takes the first match outright. For the body, where several
// contenteditable regions can coexist, it takes the first element whose
// rendered size clears the collapsed-editor threshold. A nil return means
// "insertion skipped for this field", never a hard failure.
func Locate(doc *dom.Document, provider Provider, kind FieldKind) *dom.Element {
	selectors := fieldSelectors[provider][kind]
	for _, sel := range selectors {
		matches := doc.Query(sel)
		if kind == FieldSubject {
			if len(matches) > 0 {
				return matches[0]
			}
			continue
		}
		for _, e := range matches {
			r := e.Rect()
			if r.Height > minBodyHeight && r.Width > minBodyWidth {
				return e
			}
		}
	}
	return nil
}
