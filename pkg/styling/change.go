package styling

// Event types dispatched on the document head after each mutation
const (
	EventInsert = "vstyle:insert"
	EventUpdate = "vstyle:update"
	EventRemove = "vstyle:remove"
)

// ChangeOp says what happened to an entry
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpRemove ChangeOp = "remove"
)

// EventType maps the op to its DOM event type
func (op ChangeOp) EventType() string {
	switch op {
	case OpInsert:
		return EventInsert
	case OpUpdate:
		return EventUpdate
	default:
		return EventRemove
	}
}

// Change is the detail of every registry event.
//
// For inserts and merges Properties holds the declarations passed in. For
// partial removals Removed lists the names actually deleted. CSS is the
// entry's text after the change, empty once removed.
type Change struct {
	Op         ChangeOp
	Selector   string
	Media      string
	Properties Properties
	Removed    []string
	CSS        string
}
