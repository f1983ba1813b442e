// Package styling keeps a registry of injected <style> rules, one node per
// selector and media query, whose text follows the properties merged into it.
package styling

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/recera/vstyle/pkg/dom"
	"github.com/recera/vstyle/pkg/events"
)

// StyleRegistry owns the <style> nodes it injects into a document, keyed by
// selector and media query, and keeps them in step with their properties
type StyleRegistry struct {
	mu     sync.Mutex
	doc    dom.Document
	logger *slog.Logger
	quiet  bool

	// selector key -> media key -> entry. Selector buckets outlive their
	// entries so that RemoveAll keeps reporting a known selector.
	rules map[string]map[string]*entry
}

// entry is one injected node and its declarations
type entry struct {
	el       dom.Element
	selector string
	decls    *declarations
}

// Option configures a StyleRegistry
type Option func(*StyleRegistry)

// WithLogger sets the logger used for debug records
func WithLogger(logger *slog.Logger) Option {
	return func(r *StyleRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithoutEvents stops the registry from dispatching change events
func WithoutEvents() Option {
	return func(r *StyleRegistry) {
		r.quiet = true
	}
}

// New creates an empty registry bound to doc
func New(doc dom.Document, opts ...Option) *StyleRegistry {
	r := &StyleRegistry{
		doc:    doc,
		logger: slog.Default(),
		rules:  make(map[string]map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the document the registry injects into
func (r *StyleRegistry) Document() dom.Document {
	return r.doc
}

// Insert merges props into the rule for (selector, media), creating its
// style node on first use, and returns the node. An empty media means no
// media query.
func (r *StyleRegistry) Insert(selector string, props Properties, media string) dom.Element {
	key := SelectorKey(selector)
	media = MediaKey(media)

	r.mu.Lock()
	op := OpUpdate
	e, ok := r.lookup(key, media)
	if !ok {
		op = OpInsert
		e = &entry{
			el:       r.createStyleNode(selector, media),
			selector: selector,
			decls:    newDeclarations(),
		}
		r.bucket(key)[media] = e
	}
	e.selector = selector
	e.decls.merge(props)
	css := e.decls.serialize(selector)
	e.el.SetTextContent(css)
	el := e.el
	r.mu.Unlock()

	r.logger.Debug("style rule written", "op", op, "selector", selector, "media", media, "properties", len(props))
	r.emit(Change{
		Op:         op,
		Selector:   selector,
		Media:      media,
		Properties: append(Properties(nil), props...),
		CSS:        css,
	})
	return el
}

// Remove deletes rules according to req and reports whether its target
// existed. See RemoveRequest for the variants.
func (r *StyleRegistry) Remove(selector string, req RemoveRequest) bool {
	key := SelectorKey(selector)

	r.mu.Lock()
	bucket, known := r.rules[key]
	if !known {
		r.mu.Unlock()
		return false
	}

	var changes []Change
	found := true

	switch req := req.(type) {
	case RemoveAll:
		medias := make([]string, 0, len(bucket))
		for media := range bucket {
			medias = append(medias, media)
		}
		sort.Strings(medias)
		for _, media := range medias {
			changes = append(changes, r.detach(key, media))
		}

	case RemoveProperties:
		media := MediaKey(req.Media)
		e, ok := bucket[media]
		switch {
		case !ok:
			found = false
		case len(req.Names) == 0:
			changes = append(changes, r.detach(key, media))
		default:
			var removed []string
			for _, name := range req.Names {
				if e.decls.delete(name) {
					removed = append(removed, name)
				}
			}
			if e.decls.empty() {
				changes = append(changes, r.detach(key, media))
				break
			}
			css := e.decls.serialize(e.selector)
			e.el.SetTextContent(css)
			if len(removed) > 0 {
				changes = append(changes, Change{
					Op:       OpUpdate,
					Selector: e.selector,
					Media:    media,
					Removed:  removed,
					CSS:      css,
				})
			}
		}

	case RemoveEntry:
		media := MediaKey(req.Media)
		if _, ok := bucket[media]; ok {
			changes = append(changes, r.detach(key, media))
		} else {
			found = false
		}

	default:
		found = false
	}
	r.mu.Unlock()

	for _, c := range changes {
		r.logger.Debug("style rule removed", "op", c.Op, "selector", c.Selector, "media", c.Media, "properties", c.Removed)
		r.emit(c)
	}
	return found
}

// RemoveStyles removes every media entry of selector
func (r *StyleRegistry) RemoveStyles(selector string) bool {
	return r.Remove(selector, RemoveAll{})
}

// Clear removes every entry and forgets every selector
func (r *StyleRegistry) Clear() {
	for _, key := range r.Selectors() {
		r.Remove(key, RemoveAll{})
	}

	r.mu.Lock()
	r.rules = make(map[string]map[string]*entry)
	r.mu.Unlock()
}

// Entry is a point-in-time copy of one registered rule
type Entry struct {
	Selector   string
	Key        string
	Media      string
	Class      string
	Properties Properties
	CSS        string
	Element    dom.Element
}

// Lookup returns the rule for (selector, media)
func (r *StyleRegistry) Lookup(selector, media string) (Entry, bool) {
	key := SelectorKey(selector)
	media = MediaKey(media)

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(key, media)
	if !ok {
		return Entry{}, false
	}
	return e.snapshot(key, media), true
}

// Entries returns every rule ordered by selector key, then media key
func (r *StyleRegistry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Entry
	for key, bucket := range r.rules {
		for media, e := range bucket {
			result = append(result, e.snapshot(key, media))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].Media < result[j].Media
	})
	return result
}

// Len returns the number of rules
func (r *StyleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, bucket := range r.rules {
		n += len(bucket)
	}
	return n
}

// Selectors returns every selector key ever inserted and not cleared
func (r *StyleRegistry) Selectors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.rules))
	for key := range r.rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CSS renders all rules as one stylesheet, wrapping media entries in
// @media blocks
func (r *StyleRegistry) CSS() string {
	var sb strings.Builder
	for _, e := range r.Entries() {
		if e.Media == NoMedia {
			sb.WriteString(e.CSS)
		} else {
			sb.WriteString("@media ")
			sb.WriteString(e.Media)
			sb.WriteByte('{')
			sb.WriteString(e.CSS)
			sb.WriteByte('}')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *StyleRegistry) lookup(key, media string) (*entry, bool) {
	bucket, ok := r.rules[key]
	if !ok {
		return nil, false
	}
	e, ok := bucket[media]
	return e, ok
}

func (r *StyleRegistry) bucket(key string) map[string]*entry {
	bucket, ok := r.rules[key]
	if !ok {
		bucket = make(map[string]*entry)
		r.rules[key] = bucket
	}
	return bucket
}

// createStyleNode builds and appends a new <style> to the head
func (r *StyleRegistry) createStyleNode(selector, media string) dom.Element {
	el := r.doc.CreateElement("style")
	el.SetAttribute("class", DebugClass(selector, media))
	el.SetAttribute(SelectorAttribute, selector)
	if media != NoMedia {
		el.SetAttribute("media", media)
	}
	r.doc.Head().AppendChild(el)
	return el
}

// detach removes the node and its entry. Callers hold r.mu.
func (r *StyleRegistry) detach(key, media string) Change {
	e := r.rules[key][media]
	e.el.Remove()
	delete(r.rules[key], media)
	return Change{Op: OpRemove, Selector: e.selector, Media: media}
}

// emit dispatches c on the head. Callers must not hold r.mu.
func (r *StyleRegistry) emit(c Change) {
	if r.quiet {
		return
	}
	events.Emit(r.doc.Head(), c.Op.EventType(), c, false)
}

func (e *entry) snapshot(key, media string) Entry {
	cls, _ := e.el.GetAttribute("class")
	return Entry{
		Selector:   e.selector,
		Key:        key,
		Media:      media,
		Class:      cls,
		Properties: e.decls.properties(),
		CSS:        e.decls.serialize(e.selector),
		Element:    e.el,
	}
}
