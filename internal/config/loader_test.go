package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
data_width: 64
regmap:
  address_alignment_mode: custom
  address_alignment_value: 0x10
  address_increment_mode: data_width
`

	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, Settings{
		DataWidth:      64,
		AlignmentMode:  AlignCustom,
		AlignmentValue: 16,
		IncrementMode:  IncrementDataWidth,
		IncrementValue: 4,
	}, cfg.Snapshot())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg.Snapshot())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		line    string
	}{
		{name: "float width", yaml: "data_width: 32.0", wantErr: ErrInvalidValue, line: "line 1"},
		{name: "quoted width", yaml: `data_width: "32"`, wantErr: ErrInvalidValue, line: "line 1"},
		{name: "illegal mode", yaml: "regmap:\n  address_increment_mode: auto", wantErr: ErrInvalidValue, line: "line 2"},
		{name: "list value", yaml: "data_width: [32]", wantErr: ErrInvalidValue, line: "line 1"},
		{name: "unknown option", yaml: "address_width: 32", wantErr: ErrUnknownOption, line: "line 1"},
		{name: "unknown group", yaml: "lb_bridge:\n  type: apb", wantErr: ErrUnknownOption, line: "line 1"},
		{name: "not a mapping", yaml: "- data_width", wantErr: ErrInvalidValue, line: "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("data_width: [32"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Set("data_width", 16))
	require.NoError(t, cfg.Set("regmap.address_alignment_mode", "none"))
	require.NoError(t, cfg.Set("regmap.address_increment_value", 8))

	data, err := Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Snapshot(), loaded.Snapshot())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
