package mapfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"regmap-generator/internal/config"
	"regmap-generator/internal/regmap"
)

const sample = `
config:
  regmap:
    address_increment_mode: data_width
registers:
  - name: CTRL
    description: Control register
    address: 0x0
    write_lock: true
    bitfields:
      - name: EN
        access: rw
        modifiers: [sc]
      - name: MODE
        lsb: 4
        width: 3
        initial: 5
  - name: STATUS
    bitfields:
      - {name: BUSY, access: ro}
  - address: "0x10"
    bitfields:
      - {name: LEVEL, description: Fifo level, width: 8, access: ro}
`

func TestParse(t *testing.T) {
	mf, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.NotNil(t, mf.Config)
	assert.Equal(t, yaml.MappingNode, mf.Config.Kind)
	assert.Equal(t, 3, mf.Config.Line)
	require.Len(t, mf.Registers, 3)

	ctrl := mf.Registers[0]
	assert.Equal(t, "CTRL", ctrl.Name)
	assert.Equal(t, 6, ctrl.Line)
	require.NotNil(t, ctrl.Address)
	assert.Equal(t, Address(0), *ctrl.Address)
	assert.True(t, bool(ctrl.WriteLock))
	require.Len(t, ctrl.BitFields, 2)
	assert.Equal(t, ModifierList{"sc"}, ctrl.BitFields[0].Modifiers)
	assert.Nil(t, ctrl.BitFields[0].Width)
	require.NotNil(t, ctrl.BitFields[1].Initial)
	assert.Equal(t, StrictUint(5), *ctrl.BitFields[1].Initial)

	assert.Nil(t, mf.Registers[1].Address)

	require.NotNil(t, mf.Registers[2].Address)
	assert.Equal(t, Address(0x10), *mf.Registers[2].Address)
}

func TestBuild(t *testing.T) {
	mf, err := Parse([]byte(sample))
	require.NoError(t, err)

	m, err := Build(mf, nil)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, config.IncrementDataWidth, m.Settings().IncrementMode)
	assert.Equal(t, []string{"CTRL", "STATUS", "LEVEL"}, m.Names())

	status, err := m.Register("STATUS")
	require.NoError(t, err)

	addr, ok := status.Address()
	require.True(t, ok)
	assert.Equal(t, uint64(0x4), addr)

	level, err := m.Register("LEVEL")
	require.NoError(t, err)
	assert.False(t, level.HasExplicitName())
	assert.Equal(t, "Fifo level", level.Description())

	ctrl, err := m.Register("CTRL")
	require.NoError(t, err)

	mode, err := ctrl.Field("MODE")
	require.NoError(t, err)
	assert.Equal(t, 6, mode.Msb())
	assert.Equal(t, uint64(5), mode.Initial())
	assert.Equal(t, regmap.AccessRW, mode.Access())

	en, err := ctrl.Field("EN")
	require.NoError(t, err)
	assert.True(t, en.HasModifier(regmap.ModSC))
}

func TestBuildUsesBaseConfig(t *testing.T) {
	base := config.New()
	require.NoError(t, base.Set("data_width", 64))
	require.NoError(t, base.Set("regmap.address_increment_mode", "data_width"))

	mf, err := Parse([]byte(`
registers:
  - {name: A, address: 0x0, bitfields: [{name: X}]}
  - {name: B, bitfields: [{name: Y}]}
`))
	require.NoError(t, err)

	m, err := Build(mf, base)
	require.NoError(t, err)

	b, err := m.Register("B")
	require.NoError(t, err)

	addr, _ := b.Address()
	assert.Equal(t, uint64(0x8), addr)
}

func TestBuildConfigSectionOverridesBase(t *testing.T) {
	base := config.New()
	require.NoError(t, base.Set("data_width", 64))

	mf, err := Parse([]byte("config:\n  data_width: 16\nregisters: []\n"))
	require.NoError(t, err)

	m, err := Build(mf, base)
	require.NoError(t, err)
	assert.Equal(t, 16, m.Settings().DataWidth)
	assert.Equal(t, 64, base.Snapshot().DataWidth)
}

func TestBuildConfigSection(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		dataWidth int
	}{
		{name: "mapping", yaml: "config:\n  data_width: 8\nregisters:\n  - {name: A, address: 0x3}\n", dataWidth: 8},
		{name: "empty", yaml: "config:\nregisters:\n  - {name: A, address: 0x4}\n", dataWidth: 32},
		{name: "absent", yaml: "registers:\n  - {name: A, address: 0x4}\n", dataWidth: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			m, err := Build(mf, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.dataWidth, m.Settings().DataWidth)
			assert.Equal(t, 1, m.Len())
		})
	}
}

func TestParseStrictness(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		line int
	}{
		{
			name: "quoted width",
			yaml: "registers:\n  - name: A\n    bitfields:\n      - name: X\n        width: \"4\"\n",
			line: 5,
		},
		{
			name: "float lsb",
			yaml: "registers:\n  - name: A\n    bitfields:\n      - name: X\n        lsb: 1.5\n",
			line: 5,
		},
		{
			name: "negative width",
			yaml: "registers:\n  - name: A\n    bitfields:\n      - name: X\n        width: -1\n",
			line: 5,
		},
		{
			name: "negative initial",
			yaml: "registers:\n  - name: A\n    bitfields:\n      - name: X\n        initial: -1\n",
			line: 5,
		},
		{
			name: "string flag",
			yaml: "registers:\n  - name: A\n    write_lock: \"true\"\n",
			line: 3,
		},
		{
			name: "yes is not a boolean",
			yaml: "registers:\n  - name: A\n    complementary: yes\n",
			line: 3,
		},
		{
			name: "bare modifier string",
			yaml: "registers:\n  - name: A\n    bitfields:\n      - name: X\n        modifiers: sc\n",
			line: 5,
		},
		{
			name: "hex address without prefix",
			yaml: "registers:\n  - name: A\n    address: \"f0\"\n",
			line: 3,
		},
		{
			name: "float address",
			yaml: "registers:\n  - name: A\n    address: 1.0\n",
			line: 3,
		},
		{
			name: "unknown register key",
			yaml: "registers:\n  - name: A\n    adress: 0x4\n",
			line: 3,
		},
		{
			name: "unknown bit field key",
			yaml: "registers:\n  - name: A\n    bitfields:\n      - name: X\n        msb: 3\n",
			line: 5,
		},
		{
			name: "unknown root key",
			yaml: "regs: []\n",
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, regmap.ErrInvalidValue)
			assert.Contains(t, err.Error(), fmt.Sprintf("line %d:", tt.line))
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("registers: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse map YAML")
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		target error
		line   int
	}{
		{
			name:   "unknown access",
			yaml:   "registers:\n  - name: A\n    address: 0x0\n    bitfields:\n      - {name: X, access: w0}\n",
			target: regmap.ErrInvalidValue,
			line:   5,
		},
		{
			name:   "illegal modifier",
			yaml:   "registers:\n  - name: A\n    address: 0x0\n    bitfields:\n      - {name: X, access: wo, modifiers: [hwu]}\n",
			target: regmap.ErrInvalidValue,
			line:   5,
		},
		{
			name: "overlapping fields",
			yaml: "registers:\n  - name: A\n    address: 0x0\n    bitfields:\n" +
				"      - {name: X, width: 4}\n      - {name: Y, lsb: 2}\n",
			target: regmap.ErrConflict,
			line:   2,
		},
		{
			name:   "first register without address",
			yaml:   "registers:\n  - name: A\n    bitfields: [{name: X}]\n",
			target: regmap.ErrConflict,
			line:   2,
		},
		{
			name:   "duplicate register name",
			yaml:   "registers:\n  - {name: A, address: 0x0}\n  - {name: A, address: 0x4}\n",
			target: regmap.ErrConflict,
			line:   3,
		},
		{
			name:   "misaligned address",
			yaml:   "registers:\n  - {name: A, address: 0x2}\n",
			target: regmap.ErrConflict,
			line:   2,
		},
		{
			name:   "field wider than data",
			yaml:   "registers:\n  - name: A\n    address: 0x0\n    bitfields: [{name: X, lsb: 30, width: 4}]\n",
			target: regmap.ErrInvariantViolation,
			line:   2,
		},
		{
			name:   "unnamed register with two fields",
			yaml:   "registers:\n  - address: 0x0\n    bitfields: [{name: X}, {name: Y, lsb: 1}]\n",
			target: regmap.ErrInvalidValue,
			line:   2,
		},
		{
			name:   "bad config section",
			yaml:   "config:\n  data_width: 12\nregisters: []\n",
			target: config.ErrInvalidValue,
			line:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			m, err := Build(mf, nil)
			require.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), fmt.Sprintf("line %d:", tt.line))
			assert.Nil(t, m)
		})
	}
}

func TestBuildDefersWholeMapRules(t *testing.T) {
	mf, err := Parse([]byte(`
registers:
  - name: DATA_W
    address: 0x8
    complementary: true
    bitfields: [{name: W, width: 8, access: wo}]
`))
	require.NoError(t, err)

	m, err := Build(mf, nil)
	require.NoError(t, err)
	require.ErrorIs(t, m.Validate(), regmap.ErrInvariantViolation)
	assert.Equal(t, []string{regmap.CodeComplementaryOrphan}, m.Check().Codes())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	m, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read map file")
}

func TestUnknownKeyHint(t *testing.T) {
	_, err := Parse([]byte("registers:\n  - name: A\n    adress: 0x4\n    bitfields:\n      - {name: X, widt: 2}\n"))
	require.ErrorIs(t, err, regmap.ErrInvalidValue)
	assert.Contains(t, err.Error(), `unknown key "adress" (did you mean "address"?)`)

	_, err = Parse([]byte("registers:\n  - name: A\n    bitfields:\n      - {name: X, widt: 2}\n"))
	require.ErrorIs(t, err, regmap.ErrInvalidValue)
	assert.Contains(t, err.Error(), `unknown key "widt" (did you mean "width"?)`)
}
