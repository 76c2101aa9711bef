package regmap

import (
	"fmt"
	"slices"
)

//go:generate go tool stringer -type=Access -linecomment -output=access_string.go

// Access is the access mode of a bit field as seen from the bus.
type Access int

const (
	_ Access = iota // skip zero value, it marks an unset access

	AccessRO // ro
	AccessWO // wo
	AccessRW // rw
)

// ParseAccess converts "ro", "wo" or "rw" to an Access.
func ParseAccess(s string) (Access, error) {
	for _, a := range []Access{AccessRO, AccessWO, AccessRW} {
		if a.String() == s {
			return a, nil
		}
	}

	return 0, fmt.Errorf("%w: access must be one of ro, wo, rw, got %q", ErrInvalidValue, s)
}

// IsValid reports whether a is one of the defined access modes.
func (a Access) IsValid() bool {
	return a == AccessRO || a == AccessWO || a == AccessRW
}

// IsReadable reports whether a bus read returns the field.
func (a Access) IsReadable() bool {
	return a == AccessRO || a == AccessRW
}

// IsWritable reports whether a bus write reaches the field.
func (a Access) IsWritable() bool {
	return a == AccessWO || a == AccessRW
}

// Modifier refines the behavior of a bit field beyond its access mode.
type Modifier string

const (
	ModConst Modifier = "const" // value never changes
	ModRTC   Modifier = "rtc"   // read to clear
	ModLL    Modifier = "ll"    // latch low until read
	ModLH    Modifier = "lh"    // latch high until read
	ModFIFO  Modifier = "fifo"  // access pops or pushes a FIFO
	ModHWU   Modifier = "hwu"   // hardware may update the value
	ModSC    Modifier = "sc"    // self clear after one cycle
	ModW1TC  Modifier = "w1tc"  // write 1 to clear
	ModW1TS  Modifier = "w1ts"  // write 1 to set
	ModW1TT  Modifier = "w1tt"  // write 1 to toggle
)

// legalModifiers is the access to modifier legality table.
// TODO: confirm the table against the RTL generator once modifier effects are implemented there.
var legalModifiers = map[Access][]Modifier{
	AccessRO: {ModConst, ModRTC, ModLL, ModLH, ModFIFO},
	AccessRW: {ModHWU, ModSC, ModW1TC, ModW1TS, ModW1TT},
	AccessWO: {ModSC, ModFIFO},
}

// LegalModifiers returns the modifiers allowed with an access mode.
func LegalModifiers(a Access) []Modifier {
	return slices.Clone(legalModifiers[a])
}

// LegalFor reports whether m may be used with access mode a.
func (m Modifier) LegalFor(a Access) bool {
	return slices.Contains(legalModifiers[a], m)
}

func validateModifiers(mods []Modifier, a Access) error {
	for i, m := range mods {
		if !m.LegalFor(a) {
			return fmt.Errorf("%w: modifier %q is not allowed with access %s (allowed: %v)",
				ErrInvalidValue, m, a, legalModifiers[a])
		}

		if slices.Contains(mods[:i], m) {
			return fmt.Errorf("%w: modifier %q is listed twice", ErrInvalidValue, m)
		}
	}

	return nil
}
