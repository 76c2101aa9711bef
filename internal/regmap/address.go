package regmap

import (
	"fmt"
	"math"

	"regmap-generator/internal/common"
)

// resolveAddress returns the explicit address of r, or derives one from the
// highest address in staged.
func (m *RegisterMap) resolveAddress(staged []slot, r *Register) (uint64, error) {
	if r.hasAddress {
		return r.address, nil
	}

	if r.complementary {
		return 0, fmt.Errorf("%s: %w: a complementary register needs an explicit address", r.label(), ErrConflict)
	}

	prev, ok := common.Last(staged)
	if !ok {
		return 0, fmt.Errorf("%s: %w: the first register of a map needs an explicit address", r.label(), ErrConflict)
	}

	incr, ok := m.settings.Increment()
	if !ok {
		return 0, fmt.Errorf("%s: %w: no address given and address increment mode is %s",
			r.label(), ErrConflict, m.settings.IncrementMode)
	}

	if prev.addr > math.MaxUint64-incr {
		return 0, fmt.Errorf("%s: %w: address 0x%x + %d is past the end of the address space",
			r.label(), ErrConflict, prev.addr, incr)
	}

	return prev.addr + incr, nil
}

func (m *RegisterMap) checkAlignment(r *Register, addr uint64) error {
	boundary, ok := m.settings.Alignment()
	if !ok {
		return nil
	}

	if addr%boundary != 0 {
		return fmt.Errorf("%s: %w: address 0x%x is not aligned to %d bytes (alignment mode %s)",
			r.label(), ErrConflict, addr, boundary, m.settings.AlignmentMode)
	}

	return nil
}

// checkAddress checks that r may sit at addr next to the registers in
// staged. Two registers may share an address only when both are
// complementary.
func (m *RegisterMap) checkAddress(staged []slot, r *Register, addr uint64, complementary bool) error {
	var shared []*Register

	for _, s := range staged {
		if s.reg != r && s.addr == addr {
			shared = append(shared, s.reg)
		}
	}

	if len(shared) == 0 {
		return nil
	}

	other := shared[0]

	switch {
	case !other.complementary:
		return fmt.Errorf("%s: %w: address 0x%x is already used by %s", r.label(), ErrConflict, addr, other.label())
	case !complementary:
		return fmt.Errorf("%s: %w: address 0x%x is used by complementary %s, but this register is not complementary",
			r.label(), ErrConflict, addr, other.label())
	case len(shared) >= 2:
		return fmt.Errorf("%s: %w: address 0x%x already holds a complementary pair", r.label(), ErrConflict, addr)
	}

	return nil
}
