package config

import (
	"fmt"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// RGB is a colour stop. In YAML it is either a hex string ("#4d4d4d") or a
// list of three floats in [0, 1].
type RGB struct {
	R, G, B float64
}

// Color converts to a go-colorful colour.
func (c RGB) Color() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		col, err := colorful.Hex(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid colour %q: %w", node.Line, node.Value, err)
		}
		*c = RGB{R: col.R, G: col.G, B: col.B}
		return nil
	case yaml.SequenceNode:
		var parts []float64
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) != 3 {
			return fmt.Errorf("line %d: colour needs 3 components, got %d", node.Line, len(parts))
		}
		for _, p := range parts {
			if p < 0 || p > 1 {
				return fmt.Errorf("line %d: colour component %v outside [0, 1]", node.Line, p)
			}
		}
		*c = RGB{R: parts[0], G: parts[1], B: parts[2]}
		return nil
	}
	return fmt.Errorf("line %d: colour must be a hex string or [r, g, b]", node.Line)
}

// MarshalYAML implements yaml.Marshaler. Colours are written as lists so
// values such as 0.3 survive a round trip.
func (c RGB) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{c.R, c.G, c.B} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(v, 'f', -1, 64),
		})
	}
	return node, nil
}
