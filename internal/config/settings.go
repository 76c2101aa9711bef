package config

import (
	"fmt"
	"slices"
)

// AlignmentMode selects the address boundary registers must sit on.
type AlignmentMode string

const (
	AlignNone      AlignmentMode = "none"
	AlignDataWidth AlignmentMode = "data_width"
	AlignCustom    AlignmentMode = "custom"
)

// IncrementMode selects how an omitted register address is derived.
type IncrementMode string

const (
	IncrementNone      IncrementMode = "none"
	IncrementDataWidth IncrementMode = "data_width"
	IncrementCustom    IncrementMode = "custom"
)

// Settings is a read-only snapshot of the options a register map uses.
type Settings struct {
	DataWidth      int
	AlignmentMode  AlignmentMode
	AlignmentValue int
	IncrementMode  IncrementMode
	IncrementValue int
}

// DefaultSettings returns the snapshot of a fresh Configuration.
func DefaultSettings() Settings {
	return New().Snapshot()
}

// Validate checks a Settings value built by hand rather than by Snapshot.
func (s Settings) Validate() error {
	if !slices.Contains([]int{8, 16, 32, 64}, s.DataWidth) {
		return fmt.Errorf("%w: data width must be one of 8, 16, 32, 64, got %d", ErrInvalidValue, s.DataWidth)
	}

	switch s.AlignmentMode {
	case AlignNone, AlignDataWidth:
	case AlignCustom:
		if s.AlignmentValue <= 0 {
			return fmt.Errorf("%w: custom address alignment must be positive, got %d", ErrInvalidValue, s.AlignmentValue)
		}
	default:
		return fmt.Errorf("%w: unknown address alignment mode %q", ErrInvalidValue, s.AlignmentMode)
	}

	switch s.IncrementMode {
	case IncrementNone, IncrementDataWidth:
	case IncrementCustom:
		if s.IncrementValue <= 0 {
			return fmt.Errorf("%w: custom address increment must be positive, got %d", ErrInvalidValue, s.IncrementValue)
		}
	default:
		return fmt.Errorf("%w: unknown address increment mode %q", ErrInvalidValue, s.IncrementMode)
	}

	return nil
}

// DataBytes returns the bus width in bytes.
func (s Settings) DataBytes() uint64 {
	return uint64(s.DataWidth / 8)
}

// Alignment returns the required address boundary in bytes, and false when
// addresses are not checked.
func (s Settings) Alignment() (uint64, bool) {
	switch s.AlignmentMode {
	case AlignDataWidth:
		return s.DataBytes(), true
	case AlignCustom:
		return uint64(s.AlignmentValue), true
	default:
		return 0, false
	}
}

// Increment returns the step between an implicit address and the one before
// it, and false when implicit addresses are disabled.
func (s Settings) Increment() (uint64, bool) {
	switch s.IncrementMode {
	case IncrementDataWidth:
		return s.DataBytes(), true
	case IncrementCustom:
		return uint64(s.IncrementValue), true
	default:
		return 0, false
	}
}

// FromSettings builds a Configuration holding the values of s.
func FromSettings(s Settings) (*Configuration, error) {
	cfg := New()

	values := []struct {
		path  string
		value any
	}{
		{OptDataWidth, s.DataWidth},
		{GroupRegmap + "." + OptAddressAlignmentMode, string(s.AlignmentMode)},
		{GroupRegmap + "." + OptAddressAlignmentValue, s.AlignmentValue},
		{GroupRegmap + "." + OptAddressIncrementMode, string(s.IncrementMode)},
		{GroupRegmap + "." + OptAddressIncrementValue, s.IncrementValue},
	}

	for _, v := range values {
		if err := cfg.Set(v.path, v.value); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
