package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads a YAML configuration file on top of the defaults.
func LoadFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Configuration. Every value goes through the
// option setters, so a YAML float or a quoted number fails the same way a
// programmatic Set does.
func Parse(data []byte) (*Configuration, error) {
	var doc yaml.Node

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg := New()

	if len(doc.Content) == 0 {
		return cfg, nil
	}

	if err := cfg.Apply(doc.Content[0]); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Apply sets options from a YAML mapping node. It is used both for config
// files and for the config section embedded in a map file.
func (c *Configuration) Apply(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %w: config must be a mapping", node.Line, ErrInvalidValue)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		if val.Kind == yaml.MappingNode {
			g, err := c.Group(key.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", key.Line, err)
			}

			if err := applyGroup(g, val); err != nil {
				return err
			}

			continue
		}

		if err := applyOption(c.root, key, val); err != nil {
			return err
		}
	}

	return nil
}

func applyGroup(g *Group, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := applyOption(g, node.Content[i], node.Content[i+1]); err != nil {
			return err
		}
	}

	return nil
}

func applyOption(g *Group, key, val *yaml.Node) error {
	o, err := g.Option(key.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", key.Line, err)
	}

	if val.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w: option %q expects a scalar", val.Line, ErrInvalidValue, key.Value)
	}

	var v any
	if err := val.Decode(&v); err != nil {
		return fmt.Errorf("line %d: %w", val.Line, err)
	}

	if err := o.Set(v); err != nil {
		return fmt.Errorf("line %d: %w", val.Line, err)
	}

	return nil
}

// Node renders the configuration as a YAML mapping node.
func (c *Configuration) Node() *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, o := range c.root.options {
		root.Content = append(root.Content, scalarNode(o.name), valueNode(o))
	}

	for _, g := range c.groups {
		gn := &yaml.Node{Kind: yaml.MappingNode}
		for _, o := range g.options {
			gn.Content = append(gn.Content, scalarNode(o.name), valueNode(o))
		}

		root.Content = append(root.Content, scalarNode(g.name), gn)
	}

	return root
}

// Marshal serializes a Configuration to YAML.
func Marshal(c *Configuration) ([]byte, error) {
	return yaml.Marshal(c.Node())
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func valueNode(o *Option) *yaml.Node {
	if o.kind == OptionInt {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(o.intVal)}
	}

	return scalarNode(o.strVal)
}
