package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/recera/vstyle/pkg/styling"
)

// Block is a property mapping that remembers the order it was written in
type Block []styling.Property

// UnmarshalYAML walks the mapping node directly, since decoding into a Go
// map would lose the order
func (b *Block) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*b = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}

	props := make(Block, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of %q must be a scalar", value.Line, key.Value)
		}
		props = append(props, styling.Property{Name: key.Value, Value: value.Value})
	}
	*b = props
	return nil
}

func (b Block) names() []string {
	names := make([]string, 0, len(b))
	for _, p := range b {
		names = append(names, p.Name)
	}
	return names
}

func (b Block) values() map[string]any {
	values := make(map[string]any, len(b))
	for _, p := range b {
		values[p.Name] = p.Value
	}
	return values
}
