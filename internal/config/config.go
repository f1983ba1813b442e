// Package config parses vstyle manifests: YAML files listing the style rules
// to insert into, or remove from, a registry.
//
// Example manifest:
//
//	title: Site styles
//	addr: ":8090"
//
//	mixins:
//	  center: { display: flex, align-items: center }
//
//	rules:
//	  - selector: .card
//	    media: "(min-width: 40em)"
//	    mixins: [center]
//	    properties:
//	      color: red
//	  - selector: .legacy
//	    remove: all
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recera/vstyle/pkg/styling"
	"github.com/recera/vstyle/pkg/tools"
)

// ErrInvalidManifest wraps every validation failure
var ErrInvalidManifest = errors.New("invalid manifest")

const (
	defaultTitle = "vstyle"
	defaultAddr  = ":8090"
)

// Manifest is the root of a manifest file
type Manifest struct {
	// Title is used for the rendered page. Defaults to "vstyle".
	Title string `yaml:"title"`

	// Addr is the listen address for `vstyle serve`. Defaults to ":8090".
	Addr string `yaml:"addr"`

	// Mixins are named property blocks rules can pull in
	Mixins map[string]Block `yaml:"mixins"`

	// Rules are applied in order
	Rules []Rule `yaml:"rules"`
}

// Rule either inserts properties or removes styles
type Rule struct {
	Selector string `yaml:"selector"`

	// Media is the media query; empty means none
	Media string `yaml:"media"`

	// Mixins are merged before Properties, in order
	Mixins []string `yaml:"mixins"`

	Properties Block `yaml:"properties"`

	// Remove makes this a removal rule: "all", a media string or a list of
	// property names
	Remove any `yaml:"remove"`
}

// Load reads and validates a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest YAML
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	if m.Title == "" {
		m.Title = defaultTitle
	}
	if m.Addr == "" {
		m.Addr = defaultAddr
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	for i, r := range m.Rules {
		if r.Selector == "" {
			return fmt.Errorf("%w: rule %d: selector is required", ErrInvalidManifest, i)
		}
		for _, name := range r.Mixins {
			if _, ok := m.Mixins[name]; !ok {
				return fmt.Errorf("%w: rule %d (%s): unknown mixin %q", ErrInvalidManifest, i, r.Selector, name)
			}
		}

		if r.Remove == nil {
			continue
		}
		if len(r.Properties) > 0 || len(r.Mixins) > 0 {
			return fmt.Errorf("%w: rule %d (%s): remove cannot be combined with properties or mixins", ErrInvalidManifest, i, r.Selector)
		}
		switch kind := tools.Type(r.Remove); kind {
		case "string":
		case "array":
			for _, item := range r.Remove.([]any) {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("%w: rule %d (%s): remove list holds a %s", ErrInvalidManifest, i, r.Selector, tools.Type(item))
				}
			}
		default:
			return fmt.Errorf("%w: rule %d (%s): remove must be \"all\", a media query or a list of properties, got %s", ErrInvalidManifest, i, r.Selector, kind)
		}
	}
	return nil
}

// IsRemoval reports whether the rule removes styles
func (r Rule) IsRemoval() bool {
	return r.Remove != nil
}

// Request resolves the rule's remove field
func (r Rule) Request() styling.RemoveRequest {
	return styling.ParseRemoveRequest(r.Remove, r.Media)
}

// Resolve merges the rule's mixins and properties. Later blocks override
// values but keep the position a name first appeared at.
func (r Rule) Resolve(mixins map[string]Block) styling.Properties {
	values := map[string]any{}
	var order []string

	blocks := make([]Block, 0, len(r.Mixins)+1)
	for _, name := range r.Mixins {
		blocks = append(blocks, mixins[name])
	}
	blocks = append(blocks, r.Properties)

	for _, b := range blocks {
		values = tools.Extend(false, values, b.values())
		order = tools.Merge(order, b.names(), true)
	}

	props := make(styling.Properties, 0, len(order))
	for _, name := range order {
		props = append(props, styling.Property{Name: name, Value: fmt.Sprint(values[name])})
	}
	return props
}

// Result counts what Apply did
type Result struct {
	Inserted int
	Removed  int
	Missed   int
}

// Apply runs every rule against reg in order
func Apply(m *Manifest, reg *styling.StyleRegistry) Result {
	var res Result
	for _, r := range m.Rules {
		if r.IsRemoval() {
			if reg.Remove(r.Selector, r.Request()) {
				res.Removed++
			} else {
				res.Missed++
			}
			continue
		}
		reg.Insert(r.Selector, r.Resolve(m.Mixins), r.Media)
		res.Inserted++
	}
	return res
}
