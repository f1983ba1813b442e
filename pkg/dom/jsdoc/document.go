//go:build js && wasm
// +build js,wasm

// Package jsdoc implements the dom interfaces over the browser document.
package jsdoc

import (
	"fmt"
	"sort"
	"sync"
	"syscall/js"

	"github.com/recera/vstyle/pkg/dom"
)

// idProperty tags JS nodes with the id of their Go wrapper
const idProperty = "__vstyleID"

// detailProperty carries the side table key of a Go event detail
const detailProperty = "vstyleDetail"

// Document wraps window.document
type Document struct {
	mu       sync.Mutex
	document js.Value
	elements map[int]*Element
	nextElem int

	nextListener dom.ListenerID

	details    map[int]any
	nextDetail int
}

// Open binds to the global document
func Open() (dom.Document, error) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return nil, fmt.Errorf("no global document")
	}
	if head := doc.Get("head"); head.IsUndefined() || head.IsNull() {
		return nil, fmt.Errorf("document has no head")
	}
	return &Document{
		document: doc,
		elements: make(map[int]*Element),
		details:  make(map[int]any),
	}, nil
}

func (d *Document) Head() dom.Element {
	return d.element(d.document.Get("head"))
}

func (d *Document) CreateElement(tag string) dom.Element {
	return d.element(d.document.Call("createElement", tag))
}

// element is wrap for interface results, so a missing node stays a nil
// dom.Element
func (d *Document) element(v js.Value) dom.Element {
	if el := d.wrap(v); el != nil {
		return el
	}
	return nil
}

func (d *Document) QuerySelectorAll(selector string) (result []dom.Element, err error) {
	// querySelectorAll throws a SyntaxError for bad selectors
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("invalid selector %q: %v", selector, r)
		}
	}()

	list := d.document.Call("querySelectorAll", selector)
	length := list.Get("length").Int()
	result = make([]dom.Element, 0, length)
	for i := 0; i < length; i++ {
		result = append(result, d.wrap(list.Index(i)))
	}
	return result, nil
}

// wrap returns the Go wrapper for a JS node, creating it on first sight
func (d *Document) wrap(v js.Value) *Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if id := v.Get(idProperty); id.Type() == js.TypeNumber {
		if el, ok := d.elements[id.Int()]; ok {
			return el
		}
	}

	d.nextElem++
	el := &Element{doc: d, value: v, id: d.nextElem}
	v.Set(idProperty, el.id)
	d.elements[el.id] = el
	return el
}

// registered is one listener together with its JS callback
type registered struct {
	id dom.ListenerID
	fn js.Func
}

// Element wraps a JS element
type Element struct {
	doc       *Document
	value     js.Value
	id        int
	listeners map[string][]registered
}

// Value exposes the underlying JS node
func (e *Element) Value() js.Value {
	return e.value
}

func (e *Element) TagName() string {
	return e.value.Get("tagName").String()
}

func (e *Element) GetAttribute(name string) (string, bool) {
	if !e.value.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.value.Call("getAttribute", name).String(), true
}

func (e *Element) SetAttribute(name, value string) {
	switch name {
	case "class":
		e.value.Set("className", value)
	default:
		e.value.Call("setAttribute", name, value)
	}
}

func (e *Element) RemoveAttribute(name string) {
	e.value.Call("removeAttribute", name)
}

func (e *Element) TextContent() string {
	return e.value.Get("textContent").String()
}

func (e *Element) SetTextContent(text string) {
	e.value.Set("textContent", text)
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok {
		panic(fmt.Sprintf("jsdoc: cannot append %T", child))
	}
	e.value.Call("appendChild", c.value)

	// c may have been evicted when it was last removed
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[c.id]; !ok {
		d.elements[c.id] = c
		c.value.Set(idProperty, c.id)
	}
}

// Remove detaches the element. Wrappers of the detached subtree that carry
// no listeners are dropped from the cache.
func (e *Element) Remove() {
	parent := e.value.Get("parentNode")
	if !parent.IsNull() && !parent.IsUndefined() {
		parent.Call("removeChild", e.value)
	}

	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.evict(e.value)
	descendants := e.value.Call("querySelectorAll", "*")
	for i, n := 0, descendants.Get("length").Int(); i < n; i++ {
		d.evict(descendants.Index(i))
	}
}

// evict forgets the wrapper of v unless it has listeners. Callers hold d.mu.
func (d *Document) evict(v js.Value) {
	id := v.Get(idProperty)
	if id.Type() != js.TypeNumber {
		return
	}
	if el, ok := d.elements[id.Int()]; ok && len(el.listeners) > 0 {
		return
	}
	delete(d.elements, id.Int())
	v.Delete(idProperty)
}

func (e *Element) Parent() dom.Element {
	parent := e.value.Get("parentElement")
	if parent.IsNull() || parent.IsUndefined() {
		return nil
	}
	return e.doc.wrap(parent)
}

func (e *Element) AddEventListener(eventType string, fn dom.Listener) dom.ListenerID {
	d := e.doc
	jsFunc := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return nil
		}
		native := args[0]
		ev := &dom.Event{
			Type:          native.Get("type").String(),
			Bubbles:       native.Get("bubbles").Bool(),
			Detail:        d.detail(native.Get("detail")),
			Target:        d.element(native.Get("target")),
			CurrentTarget: e,
		}
		fn(ev)
		if ev.Stopped() {
			native.Call("stopPropagation")
		}
		return nil
	})
	e.value.Call("addEventListener", eventType, jsFunc)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	id := d.nextListener
	if e.listeners == nil {
		e.listeners = make(map[string][]registered)
	}
	e.listeners[eventType] = append(e.listeners[eventType], registered{id: id, fn: jsFunc})
	return id
}

func (e *Element) RemoveEventListener(eventType string, id dom.ListenerID) bool {
	e.doc.mu.Lock()
	var found *registered
	list := e.listeners[eventType]
	for i := range list {
		if list[i].id == id {
			r := list[i]
			found = &r
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(e.listeners, eventType)
	} else {
		e.listeners[eventType] = list
	}
	if len(e.listeners) == 0 && !e.doc.document.Call("contains", e.value).Bool() {
		e.doc.evict(e.value)
	}
	e.doc.mu.Unlock()

	if found == nil {
		return false
	}
	e.value.Call("removeEventListener", eventType, found.fn)
	found.fn.Release()
	return true
}

func (e *Element) ListenerIDs(eventType string) []dom.ListenerID {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	ids := make([]dom.ListenerID, 0, len(e.listeners[eventType]))
	for _, r := range e.listeners[eventType] {
		ids = append(ids, r.id)
	}
	return ids
}

func (e *Element) EventTypes() []string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	types := make([]string, 0, len(e.listeners))
	for t := range e.listeners {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DispatchEvent fires a CustomEvent. dispatchEvent is synchronous, so the Go
// detail only lives in the side table for the duration of the call.
func (e *Element) DispatchEvent(ev *dom.Event) {
	d := e.doc
	d.mu.Lock()
	d.nextDetail++
	key := d.nextDetail
	d.details[key] = ev.Detail
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.details, key)
		d.mu.Unlock()
	}()

	init := map[string]interface{}{
		"bubbles": ev.Bubbles,
		"detail":  map[string]interface{}{detailProperty: key},
	}
	native := js.Global().Get("CustomEvent").New(ev.Type, init)
	e.value.Call("dispatchEvent", native)
}

// detail resolves an event detail back to its Go value. Events raised by
// plain JS carry their own detail, which is passed through as a js.Value.
func (d *Document) detail(v js.Value) any {
	if v.Type() != js.TypeObject {
		return v
	}
	key := v.Get(detailProperty)
	if key.Type() != js.TypeNumber {
		return v
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.details[key.Int()]
}
