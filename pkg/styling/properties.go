package styling

import (
	"sort"
	"strings"
)

// Property is a single CSS declaration
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Properties is an ordered list of declarations. Later duplicates win.
type Properties []Property

// Props builds Properties from alternating name/value pairs. A trailing
// name without a value is ignored.
func Props(pairs ...string) Properties {
	props := make(Properties, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		props = append(props, Property{Name: pairs[i], Value: pairs[i+1]})
	}
	return props
}

// FromMap converts a map, ordering names alphabetically so the result is stable
func FromMap(m map[string]string) Properties {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make(Properties, 0, len(names))
	for _, name := range names {
		props = append(props, Property{Name: name, Value: m[name]})
	}
	return props
}

// Map returns the declarations as a map, applying last-write-wins
func (p Properties) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, prop := range p {
		m[prop.Name] = prop.Value
	}
	return m
}

// declarations is an insertion-ordered property map. New names append,
// overwritten names keep their position.
type declarations struct {
	names  []string
	values map[string]string
}

func newDeclarations() *declarations {
	return &declarations{values: make(map[string]string)}
}

func (d *declarations) set(name, value string) {
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = value
}

func (d *declarations) merge(props Properties) {
	for _, p := range props {
		d.set(p.Name, p.Value)
	}
}

// delete reports whether name was present
func (d *declarations) delete(name string) bool {
	if _, ok := d.values[name]; !ok {
		return false
	}
	delete(d.values, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
	return true
}

func (d *declarations) empty() bool {
	return len(d.names) == 0
}

func (d *declarations) properties() Properties {
	props := make(Properties, 0, len(d.names))
	for _, name := range d.names {
		props = append(props, Property{Name: name, Value: d.values[name]})
	}
	return props
}

// serialize renders selector{name : value;...}
func (d *declarations) serialize(selector string) string {
	var sb strings.Builder
	sb.WriteString(selector)
	sb.WriteByte('{')
	for _, name := range d.names {
		sb.WriteString(name)
		sb.WriteString(" : ")
		sb.WriteString(d.values[name])
		sb.WriteByte(';')
	}
	sb.WriteByte('}')
	return sb.String()
}
