package mapfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"regmap-generator/internal/config"
	"regmap-generator/internal/regmap"
)

// Export converts a register map back to its file form. Every register
// gets its resolved address, and every bit field all of its attributes, so
// building the result under any base configuration yields an equal map.
// A register whose name comes from its only bit field is written without
// a name.
func Export(m *regmap.RegisterMap) (*MapFile, error) {
	cfg, err := config.FromSettings(m.Settings())
	if err != nil {
		return nil, fmt.Errorf("failed to export settings: %w", err)
	}

	mf := &MapFile{Config: cfg.Node()}

	for _, r := range m.Registers() {
		mf.Registers = append(mf.Registers, exportRegister(r))
	}

	return mf, nil
}

func exportRegister(r *regmap.Register) RegisterDef {
	def := RegisterDef{
		Description:   r.ExplicitDescription(),
		Complementary: StrictBool(r.Complementary()),
		WriteLock:     StrictBool(r.WriteLock()),
		AccessStrobes: StrictBool(r.AccessStrobes()),
	}

	if r.HasExplicitName() {
		def.Name, _ = r.Name()
	}

	if addr, ok := r.Address(); ok {
		a := Address(addr)
		def.Address = &a
	}

	for _, bf := range r.Fields() {
		def.BitFields = append(def.BitFields, exportBitField(bf))
	}

	return def
}

func exportBitField(bf *regmap.BitField) BitFieldDef {
	initial := StrictUint(bf.Initial())
	width := StrictInt(bf.Width())
	lsb := StrictInt(bf.Lsb())

	def := BitFieldDef{
		Name:        bf.Name(),
		Description: bf.Description(),
		Initial:     &initial,
		Width:       &width,
		Lsb:         &lsb,
		Access:      bf.Access().String(),
	}

	for _, mod := range bf.Modifiers() {
		def.Modifiers = append(def.Modifiers, string(mod))
	}

	return def
}

// Marshal serializes a MapFile to YAML.
func Marshal(mf *MapFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MapFile to the given path.
func WriteFile(mf *MapFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write map file %s: %w", path, err)
	}

	return nil
}
