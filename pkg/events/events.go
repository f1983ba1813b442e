// Package events is a thin emit/on/off façade over dom.EventTarget.
package events

import (
	"sync"

	"github.com/recera/vstyle/pkg/dom"
)

// Emit dispatches a custom event carrying detail on target
func Emit(target dom.EventTarget, eventType string, detail any, bubbles bool) *dom.Event {
	ev := dom.NewEvent(eventType, detail, bubbles)
	target.DispatchEvent(ev)
	return ev
}

// On registers fn for eventType and returns its handle for OffListener
func On(target dom.EventTarget, eventType string, fn dom.Listener) dom.ListenerID {
	return target.AddEventListener(eventType, fn)
}

// Once registers fn so that it runs for the first matching event only
func Once(target dom.EventTarget, eventType string, fn dom.Listener) dom.ListenerID {
	var (
		mu    sync.Mutex
		id    dom.ListenerID
		fired bool
	)
	// a dispatch on another goroutine waits here until id is known
	mu.Lock()
	defer mu.Unlock()
	id = target.AddEventListener(eventType, func(ev *dom.Event) {
		mu.Lock()
		if fired {
			mu.Unlock()
			return
		}
		fired = true
		mu.Unlock()

		target.RemoveEventListener(eventType, id)
		fn(ev)
	})
	return id
}

// Off removes every listener of the given types, or of all types when none
// are given. It returns how many listeners were removed.
func Off(target dom.EventTarget, eventTypes ...string) int {
	if len(eventTypes) == 0 {
		eventTypes = target.EventTypes()
	}

	removed := 0
	for _, t := range eventTypes {
		for _, id := range target.ListenerIDs(t) {
			if target.RemoveEventListener(t, id) {
				removed++
			}
		}
	}
	return removed
}

// OffListener removes one listener
func OffListener(target dom.EventTarget, eventType string, id dom.ListenerID) bool {
	return target.RemoveEventListener(eventType, id)
}
