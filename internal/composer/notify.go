package composer

import "github.com/sourcery-io/sourcery/internal/dom"

// NotificationID is the element id of the transient confirmation toast.
const NotificationID = "sourcery-notification"

// Notifier surfaces a transient message to the user after an insertion
// attempt.
type Notifier interface {
	Notify(doc *dom.Document, message string)
}

// Toast renders notifications as an element appended to the document body.
// A new toast replaces any previous one; dismissal is the replacement (or
// page teardown), keeping everything on the document's single goroutine.
type Toast struct{}

// Notify appends the toast element, removing a previous toast first.
func (Toast) Notify(doc *dom.Document, message string) {
	if prev := doc.ElementByID(NotificationID); prev != nil {
		prev.Remove()
	}
	n := doc.CreateElement("div")
	n.SetAttr("id", NotificationID)
	n.SetAttr("class", "sourcery-toast")
	n.SetText(message)
	doc.Body().Append(n)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(doc *dom.Document, message string)

// Notify calls the function.
func (f NotifierFunc) Notify(doc *dom.Document, message string) { f(doc, message) }
