// Package htmldoc implements the dom interfaces over an in-memory
// golang.org/x/net/html tree. It backs server-side rendering, the CLI and
// tests; the browser uses package jsdoc instead.
package htmldoc

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/recera/vstyle/pkg/dom"
)

const blankPage = `<!DOCTYPE html><html><head></head><body></body></html>`

var (
	htmlSelector = cascadia.MustCompile("html")
	headSelector = cascadia.MustCompile("head")
	bodySelector = cascadia.MustCompile("body")
)

// Document is a goroutine-safe HTML document. Tree mutations and listener
// bookkeeping happen under one mutex; listeners run outside of it.
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	elements map[*html.Node]*Element
	nextID   dom.ListenerID
}

var _ dom.Document = (*Document)(nil)

// New creates an empty HTML5 page with <head> and <body>
func New() *Document {
	doc, err := Parse(strings.NewReader(blankPage))
	if err != nil {
		// strings.Reader never fails
		panic(err)
	}
	return doc
}

// Parse reads an HTML document
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
	}, nil
}

// Head returns the <head> element, creating one if the tree lacks it
func (d *Document) Head() dom.Element {
	return d.sectioned(headSelector, atom.Head)
}

// Body returns the <body> element, creating one if the tree lacks it
func (d *Document) Body() dom.Element {
	return d.sectioned(bodySelector, atom.Body)
}

func (d *Document) sectioned(sel cascadia.Selector, a atom.Atom) dom.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n := sel.MatchFirst(d.root); n != nil {
		return d.wrap(n)
	}

	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	parent := d.root
	if htmlNode := htmlSelector.MatchFirst(d.root); htmlNode != nil {
		parent = htmlNode
	}
	if a == atom.Head && parent.FirstChild != nil {
		parent.InsertBefore(n, parent.FirstChild)
	} else {
		parent.AppendChild(n)
	}
	return d.wrap(n)
}

// CreateElement creates a detached element owned by this document
func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(n)
}

// QuerySelectorAll matches a CSS selector against the whole tree
func (d *Document) QuerySelectorAll(selector string) ([]dom.Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	nodes := sel.MatchAll(d.root)
	result := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, d.wrap(n))
	}
	return result, nil
}

// Render writes the document as HTML
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	return sb.String()
}

// wrap returns the cached element for n. Callers hold d.mu.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

// listener is one registered callback
type listener struct {
	id dom.ListenerID
	fn dom.Listener
}

// Element wraps an *html.Node element
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[string][]listener
}

var _ dom.Element = (*Element)(nil)

// Node exposes the underlying parse tree node
func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) TagName() string {
	return e.node.Data
}

func (e *Element) GetAttribute(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttribute(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for i, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttribute(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	attrs := e.node.Attr[:0]
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			continue
		}
		attrs = append(attrs, attr)
	}
	e.node.Attr = attrs
}

// TextContent concatenates every descendant text node
func (e *Element) TextContent() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var sb strings.Builder
	collectText(e.node, &sb)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			collectText(c, sb)
		}
	}
}

// SetTextContent replaces all children with a single text node
func (e *Element) SetTextContent(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok || c.doc != e.doc {
		panic(fmt.Sprintf("htmldoc: cannot append %T from another document", child))
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
	// c may have been evicted when it was last removed
	if _, ok := e.doc.elements[c.node]; !ok {
		e.doc.elements[c.node] = c
	}
}

// Remove detaches the element. Wrappers of the detached subtree that carry
// no listeners are dropped from the cache.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	e.doc.evict(e.node)
}

// evict forgets the listener-free wrappers under n. Callers hold d.mu.
func (d *Document) evict(n *html.Node) {
	if el, ok := d.elements[n]; ok && len(el.listeners) == 0 {
		delete(d.elements, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.evict(c)
	}
}

// attached reports whether n is part of the tree. Callers hold d.mu.
func (d *Document) attached(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

func (e *Element) Parent() dom.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

func (e *Element) AddEventListener(eventType string, fn dom.Listener) dom.ListenerID {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	e.doc.nextID++
	id := e.doc.nextID
	if e.listeners == nil {
		e.listeners = make(map[string][]listener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener{id: id, fn: fn})
	return id
}

func (e *Element) RemoveEventListener(eventType string, id dom.ListenerID) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	list := e.listeners[eventType]
	for i, l := range list {
		if l.id != id {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(e.listeners, eventType)
		} else {
			e.listeners[eventType] = list
		}
		if len(e.listeners) == 0 && e.doc.elements[e.node] == e && !e.doc.attached(e.node) {
			delete(e.doc.elements, e.node)
		}
		return true
	}
	return false
}

func (e *Element) ListenerIDs(eventType string) []dom.ListenerID {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	list := e.listeners[eventType]
	ids := make([]dom.ListenerID, 0, len(list))
	for _, l := range list {
		ids = append(ids, l.id)
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

// DispatchEvent runs listeners on the target and, for bubbling events, on
// each ancestor that has a wrapper. Dispatch is synchronous.
func (e *Element) DispatchEvent(ev *dom.Event) {
	if ev.Target == nil {
		ev.Target = e
	}

	e.doc.mu.Lock()
	path := []*Element{e}
	if ev.Bubbles {
		for n := e.node.Parent; n != nil; n = n.Parent {
			if el, ok := e.doc.elements[n]; ok {
				path = append(path, el)
			}
		}
	}
	e.doc.mu.Unlock()

	for _, el := range path {
		el.doc.mu.Lock()
		list := append([]listener(nil), el.listeners[ev.Type]...)
		el.doc.mu.Unlock()

		ev.CurrentTarget = el
		for _, l := range list {
			l.fn(ev)
		}
		if ev.Stopped() {
			break
		}
	}
	ev.CurrentTarget = nil
}
