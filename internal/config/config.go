package config

import (
	"fmt"
	"strings"

	"regmap-generator/internal/suggest"
)

// Option names.
const (
	GroupRegmap = "regmap"

	OptDataWidth             = "data_width"
	OptAddressAlignmentMode  = "address_alignment_mode"
	OptAddressAlignmentValue = "address_alignment_value"
	OptAddressIncrementMode  = "address_increment_mode"
	OptAddressIncrementValue = "address_increment_value"
)

// Group is an ordered set of options.
type Group struct {
	name    string
	options []*Option
}

// Name returns the group name. The root group has an empty name.
func (g *Group) Name() string { return g.name }

// Options returns the options in definition order.
func (g *Group) Options() []*Option { return g.options }

// Option looks an option up by name.
func (g *Group) Option(name string) (*Option, error) {
	for _, o := range g.options {
		if o.name == name {
			return o, nil
		}
	}

	hint := suggest.Hint(name, g.names())

	if g.name == "" {
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownOption, name, hint)
	}

	return nil, fmt.Errorf("%w: %q in group %q%s", ErrUnknownOption, name, g.name, hint)
}

func (g *Group) names() []string {
	names := make([]string, len(g.options))
	for i, o := range g.options {
		names[i] = o.name
	}

	return names
}

// Set sets a named option of the group.
func (g *Group) Set(name string, value any) error {
	o, err := g.Option(name)
	if err != nil {
		return err
	}

	return o.Set(value)
}

// Configuration is the full option tree: root options plus named groups.
type Configuration struct {
	root   *Group
	groups []*Group
}

// New returns a Configuration with every option at its default.
func New() *Configuration {
	return &Configuration{
		root: &Group{options: []*Option{
			newIntOption(OptDataWidth, "Bus data width in bits", 32, 8, 16, 32, 64),
		}},
		groups: []*Group{{
			name: GroupRegmap,
			options: []*Option{
				newEnumOption(OptAddressAlignmentMode,
					"Which address boundary registers must sit on",
					string(AlignDataWidth), string(AlignNone), string(AlignDataWidth), string(AlignCustom)),
				newIntOption(OptAddressAlignmentValue, "Alignment boundary in bytes when the mode is custom", 4),
				newEnumOption(OptAddressIncrementMode,
					"How the address of a register without one is derived",
					string(IncrementNone), string(IncrementNone), string(IncrementDataWidth), string(IncrementCustom)),
				newIntOption(OptAddressIncrementValue, "Address increment in bytes when the mode is custom", 4),
			},
		}},
	}
}

// Root returns the group of top-level options.
func (c *Configuration) Root() *Group { return c.root }

// Groups returns the named groups in definition order.
func (c *Configuration) Groups() []*Group { return c.groups }

// Group looks a named group up.
func (c *Configuration) Group(name string) (*Group, error) {
	for _, g := range c.groups {
		if g.name == name {
			return g, nil
		}
	}

	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.name
	}

	return nil, fmt.Errorf("%w: group %q%s", ErrUnknownOption, name, suggest.Hint(name, names))
}

// Lookup resolves a dotted path such as "data_width" or
// "regmap.address_increment_mode".
func (c *Configuration) Lookup(path string) (*Option, error) {
	group, name, found := strings.Cut(path, ".")
	if !found {
		return c.root.Option(path)
	}

	g, err := c.Group(group)
	if err != nil {
		return nil, err
	}

	return g.Option(name)
}

// Set sets the option at a dotted path.
func (c *Configuration) Set(path string, value any) error {
	o, err := c.Lookup(path)
	if err != nil {
		return err
	}

	return o.Set(value)
}

// Reset restores every option to its default.
func (c *Configuration) Reset() {
	for _, o := range c.root.options {
		o.Reset()
	}

	for _, g := range c.groups {
		for _, o := range g.options {
			o.Reset()
		}
	}
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	out := &Configuration{root: &Group{}}
	for _, o := range c.root.options {
		out.root.options = append(out.root.options, o.clone())
	}

	for _, g := range c.groups {
		ng := &Group{name: g.name}
		for _, o := range g.options {
			ng.options = append(ng.options, o.clone())
		}

		out.groups = append(out.groups, ng)
	}

	return out
}

// Snapshot captures the current values as an immutable Settings value.
func (c *Configuration) Snapshot() Settings {
	get := func(path string) *Option {
		o, err := c.Lookup(path)
		if err != nil {
			panic(err) // every path below is defined by New
		}

		return o
	}

	return Settings{
		DataWidth:      get(OptDataWidth).Int(),
		AlignmentMode:  AlignmentMode(get(GroupRegmap + "." + OptAddressAlignmentMode).Str()),
		AlignmentValue: get(GroupRegmap + "." + OptAddressAlignmentValue).Int(),
		IncrementMode:  IncrementMode(get(GroupRegmap + "." + OptAddressIncrementMode).Str()),
		IncrementValue: get(GroupRegmap + "." + OptAddressIncrementValue).Int(),
	}
}

// String renders the configuration as "path=value" pairs.
func (c *Configuration) String() string {
	var parts []string
	for _, o := range c.root.options {
		parts = append(parts, fmt.Sprintf("%s=%v", o.name, o.Value()))
	}

	for _, g := range c.groups {
		for _, o := range g.options {
			parts = append(parts, fmt.Sprintf("%s.%s=%v", g.name, o.name, o.Value()))
		}
	}

	return "Configuration(" + strings.Join(parts, ", ") + ")"
}
