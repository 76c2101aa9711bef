package mapfile

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"regmap-generator/internal/regmap"
	"regmap-generator/internal/suggest"
)

const (
	tagInt  = "!!int"
	tagBool = "!!bool"
	tagStr  = "!!str"
)

// nodeError reports a problem at the line of node.
func nodeError(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", node.Line, regmap.ErrInvalidValue, fmt.Sprintf(format, args...))
}

func expectScalar(node *yaml.Node, tag, what string) error {
	if node.Kind != yaml.ScalarNode || node.Tag != tag {
		return nodeError(node, "expected %s, got %s %q", what, describe(node), node.Value)
	}

	return nil
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return node.ShortTag()
	default:
		return "node"
	}
}

// checkKeys rejects keys of a mapping node that are not in allowed.
func checkKeys(node *yaml.Node, allowed []string) error {
	if node.Kind != yaml.MappingNode {
		return nodeError(node, "expected mapping, got %s", describe(node))
	}

	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return nodeError(key, "unknown key %q%s", key.Value, suggest.Hint(key.Value, allowed))
		}
	}

	return nil
}

// --- StrictInt ---

// StrictInt is a non-negative integer that only accepts a YAML integer.
type StrictInt int

// UnmarshalYAML implements custom YAML unmarshaling for StrictInt.
func (s *StrictInt) UnmarshalYAML(node *yaml.Node) error {
	if err := expectScalar(node, tagInt, "integer"); err != nil {
		return err
	}

	var v int
	if err := node.Decode(&v); err != nil {
		return nodeError(node, "%v", err)
	}

	if v < 0 {
		return nodeError(node, "expected non-negative integer, got %d", v)
	}

	*s = StrictInt(v)

	return nil
}

// --- StrictUint ---

// StrictUint is an unsigned 64-bit integer that only accepts a YAML integer.
type StrictUint uint64

// UnmarshalYAML implements custom YAML unmarshaling for StrictUint.
func (s *StrictUint) UnmarshalYAML(node *yaml.Node) error {
	if err := expectScalar(node, tagInt, "integer"); err != nil {
		return err
	}

	var v uint64
	if err := node.Decode(&v); err != nil {
		return nodeError(node, "expected non-negative integer, got %q", node.Value)
	}

	*s = StrictUint(v)

	return nil
}

// --- StrictBool ---

// StrictBool only accepts a YAML boolean.
type StrictBool bool

// UnmarshalYAML implements custom YAML unmarshaling for StrictBool.
func (s *StrictBool) UnmarshalYAML(node *yaml.Node) error {
	if err := expectScalar(node, tagBool, "boolean"); err != nil {
		return err
	}

	var v bool
	if err := node.Decode(&v); err != nil {
		return nodeError(node, "%v", err)
	}

	*s = StrictBool(v)

	return nil
}

// --- Address ---

// Address is a register address written as a YAML integer or as a "0x"
// prefixed hexadecimal string.
type Address uint64

// UnmarshalYAML implements custom YAML unmarshaling for Address.
func (a *Address) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == tagStr {
		v, err := regmap.ParseAddress(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		*a = Address(v)

		return nil
	}

	var v StrictUint
	if err := v.UnmarshalYAML(node); err != nil {
		return err
	}

	*a = Address(v)

	return nil
}

// MarshalYAML implements custom YAML marshaling for Address.
// Addresses are always written in hexadecimal.
func (a Address) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagInt, Value: fmt.Sprintf("0x%x", uint64(a))}, nil
}

// --- ModifierList ---

// ModifierList is a sequence of modifier names. A bare string is rejected.
type ModifierList []string

// UnmarshalYAML implements custom YAML unmarshaling for ModifierList.
func (m *ModifierList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return nodeError(node, "modifiers must be a sequence, got %s %q", describe(node), node.Value)
	}

	out := make(ModifierList, 0, len(node.Content))

	for _, item := range node.Content {
		if err := expectScalar(item, tagStr, "modifier name"); err != nil {
			return err
		}

		out = append(out, item.Value)
	}

	*m = out

	return nil
}

// Modifiers converts the names to model modifiers.
func (m ModifierList) Modifiers() []regmap.Modifier {
	out := make([]regmap.Modifier, len(m))
	for i, s := range m {
		out[i] = regmap.Modifier(s)
	}

	return out
}

// --- RegisterDef / BitFieldDef ---

// UnmarshalYAML implements custom YAML unmarshaling for RegisterDef.
// It rejects unknown keys and records the source line.
func (r *RegisterDef) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, registerKeys); err != nil {
		return err
	}

	type plain RegisterDef

	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}

	r.Line = node.Line

	return nil
}

// UnmarshalYAML implements custom YAML unmarshaling for BitFieldDef.
// It rejects unknown keys and records the source line.
func (b *BitFieldDef) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, bitFieldKeys); err != nil {
		return err
	}

	type plain BitFieldDef

	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}

	b.Line = node.Line

	return nil
}
