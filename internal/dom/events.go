package dom

// EventType names a synthetic DOM event.
type EventType string

const (
	EventInput  EventType = "input"
	EventChange EventType = "change"
	EventClick  EventType = "click"
)

// Event is delivered to listeners during dispatch.
type Event struct {
	Type EventType
	// Target is the element the event was dispatched on.
	Target *Element
	// CurrentTarget is the element whose listener is running.
	CurrentTarget *Element

	stopped bool
}

// StopPropagation halts bubbling after the current element's listeners run.
func (ev *Event) StopPropagation() { ev.stopped = true }

// Listener handles a dispatched event.
type Listener func(*Event)

// Listen registers a listener for an event type on this element. Listeners
// fire for events dispatched on the element itself and for bubbling events
// from its descendants.
func (e *Element) Listen(t EventType, fn Listener) {
	if e.listeners == nil {
		e.listeners = map[EventType][]Listener{}
	}
	e.listeners[t] = append(e.listeners[t], fn)
}

// Dispatch fires a bubbling event of the given type on the element, running
// listeners from the target up through its ancestors, the way the host
// page's own framework would observe a synthetic input or change event.
func (e *Element) Dispatch(t EventType) {
	ev := &Event{Type: t, Target: e}
	for node := e; node != nil; node = node.parent {
		ev.CurrentTarget = node
		for _, fn := range node.listeners[t] {
			fn(ev)
		}
		if ev.stopped {
			return
		}
	}
}

// Click is shorthand for dispatching a click event.
func (e *Element) Click() { e.Dispatch(EventClick) }
