package mapfile

import (
	"gopkg.in/yaml.v3"
)

// MapFile represents the root of a register map description file.
type MapFile struct {
	// Config overrides options of the base configuration.
	Config *yaml.Node `yaml:"config,omitempty"`

	// Registers in file order. The built map orders them by address.
	Registers []RegisterDef `yaml:"registers"`
}

// RegisterDef describes one register.
type RegisterDef struct {
	// Name may be omitted when the register holds exactly one bit field.
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Address is optional after the first register when an increment
	// policy is configured.
	Address *Address `yaml:"address,omitempty"`

	Complementary StrictBool `yaml:"complementary,omitempty"`
	WriteLock     StrictBool `yaml:"write_lock,omitempty"`
	AccessStrobes StrictBool `yaml:"access_strobes,omitempty"`

	BitFields []BitFieldDef `yaml:"bitfields,omitempty"`

	// Line is the line of the register in the source file, 0 if unknown.
	Line int `yaml:"-"`
}

// BitFieldDef describes one bit field. Omitted attributes take the model
// defaults.
type BitFieldDef struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Initial     *StrictUint  `yaml:"initial,omitempty"`
	Width       *StrictInt   `yaml:"width,omitempty"`
	Lsb         *StrictInt   `yaml:"lsb,omitempty"`
	Access      string       `yaml:"access,omitempty"`
	Modifiers   ModifierList `yaml:"modifiers,omitempty"`

	// Line is the line of the bit field in the source file, 0 if unknown.
	Line int `yaml:"-"`
}

var (
	registerKeys = []string{
		"name", "description", "address", "complementary", "write_lock", "access_strobes", "bitfields",
	}
	bitFieldKeys = []string{"name", "description", "initial", "width", "lsb", "access", "modifiers"}
	rootKeys     = []string{"config", "registers"}
)
