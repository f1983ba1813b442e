package styling

import (
	"errors"
	"fmt"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Hydrate adopts style nodes another registry rendered into the document,
// typically on the server, and returns how many entries it registered.
// Nodes the registry already owns are skipped; a second node for an owned
// (selector, media) pair is removed from the document.
func (r *StyleRegistry) Hydrate() (int, error) {
	nodes, err := r.doc.QuerySelectorAll("style[" + SelectorAttribute + "]")
	if err != nil {
		return 0, fmt.Errorf("failed to find style nodes: %w", err)
	}

	var (
		adopted []Change
		errs    []error
	)

	r.mu.Lock()
	for _, el := range nodes {
		selector, _ := el.GetAttribute(SelectorAttribute)
		media, hasMedia := el.GetAttribute("media")
		if !hasMedia {
			media = NoMedia
		}
		key := SelectorKey(selector)

		if existing, ok := r.lookup(key, media); ok {
			if existing.el != el {
				r.logger.Debug("dropping duplicate style node", "selector", selector, "media", media)
				el.Remove()
			}
			continue
		}

		props, err := parseRuleText(el.TextContent())
		if err != nil {
			errs = append(errs, fmt.Errorf("style node for %q: %w", selector, err))
			continue
		}

		e := &entry{el: el, selector: selector, decls: newDeclarations()}
		e.decls.merge(props)
		r.bucket(key)[media] = e
		adopted = append(adopted, Change{
			Op:         OpInsert,
			Selector:   selector,
			Media:      media,
			Properties: props,
			CSS:        e.decls.serialize(selector),
		})
	}
	r.mu.Unlock()

	for _, c := range adopted {
		r.logger.Debug("style rule hydrated", "selector", c.Selector, "media", c.Media)
		r.emit(c)
	}
	return len(adopted), errors.Join(errs...)
}

// parseRuleText reads the declarations of the single rule a node holds
func parseRuleText(text string) (Properties, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	for _, rule := range sheet.Rules {
		if rule.Kind != css.QualifiedRule {
			continue
		}
		props := make(Properties, 0, len(rule.Declarations))
		for _, d := range rule.Declarations {
			value := d.Value
			if d.Important {
				value += " !important"
			}
			props = append(props, Property{Name: d.Property, Value: value})
		}
		return props, nil
	}
	return nil, fmt.Errorf("no rule in %q", text)
}
