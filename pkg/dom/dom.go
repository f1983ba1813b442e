// Package dom defines the small slice of the W3C DOM that vstyle needs.
// Two backends implement it: htmldoc (an in-memory x/net/html tree used on
// the server and in tests) and jsdoc (the browser document via syscall/js).
package dom

// Document is the host document style nodes are injected into
type Document interface {
	// Head returns the document's <head> element
	Head() Element

	// CreateElement creates a detached element
	CreateElement(tag string) Element

	// QuerySelectorAll returns every element matching a CSS selector
	QuerySelectorAll(selector string) ([]Element, error)
}

// Element is a single element node
type Element interface {
	EventTarget

	TagName() string

	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)

	TextContent() string
	SetTextContent(text string)

	// AppendChild moves child to the end of this element's children
	AppendChild(child Element)

	// Remove detaches the element from its parent, if any
	Remove()

	// Parent returns nil for detached elements and the document root
	Parent() Element
}

// ListenerID identifies a registered listener. Go funcs are not comparable,
// so removal goes through the ID handed out on registration.
type ListenerID uint64

// Listener receives dispatched events
type Listener func(ev *Event)

// EventTarget is implemented by every element
type EventTarget interface {
	AddEventListener(eventType string, fn Listener) ListenerID
	RemoveEventListener(eventType string, id ListenerID) bool

	// ListenerIDs returns the IDs registered for eventType in registration order
	ListenerIDs(eventType string) []ListenerID

	// EventTypes returns every type with at least one listener
	EventTypes() []string

	DispatchEvent(ev *Event)
}

// Event is a custom event travelling through the tree
type Event struct {
	Type    string
	Detail  any
	Bubbles bool

	// Target is the element the event was dispatched on
	Target Element
	// CurrentTarget is the element whose listener is running
	CurrentTarget Element

	stopped bool
}

// NewEvent creates an event ready for dispatch
func NewEvent(eventType string, detail any, bubbles bool) *Event {
	return &Event{
		Type:    eventType,
		Detail:  detail,
		Bubbles: bubbles,
	}
}

// StopPropagation prevents the event from reaching further ancestors
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called
func (e *Event) Stopped() bool {
	return e.stopped
}
