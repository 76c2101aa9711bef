package mapfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"regmap-generator/internal/config"
	"regmap-generator/internal/regmap"
)

// LoadFile loads and parses a YAML map file from the given path.
func LoadFile(path string) (*MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MapFile.
func Parse(data []byte) (*MapFile, error) {
	var mf MapFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse map YAML: %w", err)
	}

	return &mf, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for MapFile.
func (mf *MapFile) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, rootKeys); err != nil {
		return err
	}

	type plain MapFile

	if err := node.Decode((*plain)(mf)); err != nil {
		return err
	}

	// Decoding leaves an empty node in Config, keep the source node instead.
	mf.Config = nil

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "config" {
			mf.Config = node.Content[i+1]
		}
	}

	return nil
}

// Load reads a map file and builds it on top of base. See Build.
func Load(path string, base *config.Configuration) (*regmap.RegisterMap, error) {
	mf, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := Build(mf, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Build creates a register map from a parsed file. The file's config
// section is applied over a copy of base, or over the defaults when base is
// nil. Registers are added in file order, so a register without an address
// follows the highest address defined before it.
func Build(mf *MapFile, base *config.Configuration) (*regmap.RegisterMap, error) {
	cfg := config.New()
	if base != nil {
		cfg = base.Clone()
	}

	if mf.Config != nil {
		if err := cfg.Apply(mf.Config); err != nil {
			return nil, fmt.Errorf("failed to apply config section: %w", err)
		}
	}

	m, err := regmap.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	for i := range mf.Registers {
		def := &mf.Registers[i]

		r, err := def.build()
		if err != nil {
			return nil, err
		}

		if err := m.AddRegisters(r); err != nil {
			return nil, fmt.Errorf("line %d: %w", def.Line, err)
		}
	}

	return m, nil
}

func (r *RegisterDef) build() (*regmap.Register, error) {
	opts := []regmap.RegisterOption{
		regmap.WithRegisterDescription(r.Description),
		regmap.WithComplementary(bool(r.Complementary)),
		regmap.WithWriteLock(bool(r.WriteLock)),
		regmap.WithAccessStrobes(bool(r.AccessStrobes)),
	}

	if r.Name != "" {
		opts = append(opts, regmap.WithRegisterName(r.Name))
	}

	if r.Address != nil {
		opts = append(opts, regmap.WithAddress(uint64(*r.Address)))
	}

	reg, err := regmap.NewRegister(opts...)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.Line, err)
	}

	fields := make([]*regmap.BitField, 0, len(r.BitFields))

	for i := range r.BitFields {
		bf, err := r.BitFields[i].build()
		if err != nil {
			return nil, err
		}

		fields = append(fields, bf)
	}

	if err := reg.AddBitFields(fields...); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.Line, err)
	}

	return reg, nil
}

func (b *BitFieldDef) build() (*regmap.BitField, error) {
	opts := []regmap.BitFieldOption{regmap.WithDescription(b.Description)}

	if b.Initial != nil {
		opts = append(opts, regmap.WithInitial(uint64(*b.Initial)))
	}

	if b.Width != nil {
		opts = append(opts, regmap.WithWidth(int(*b.Width)))
	}

	if b.Lsb != nil {
		opts = append(opts, regmap.WithLsb(int(*b.Lsb)))
	}

	if b.Access != "" {
		a, err := regmap.ParseAccess(b.Access)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", b.Line, err)
		}

		opts = append(opts, regmap.WithAccess(a))
	}

	if len(b.Modifiers) > 0 {
		opts = append(opts, regmap.WithModifiers(b.Modifiers.Modifiers()...))
	}

	bf, err := regmap.NewBitField(b.Name, opts...)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", b.Line, err)
	}

	return bf, nil
}
