package regmap

import (
	"fmt"

	"regmap-generator/internal/diagnostic"
)

// Diagnostic codes reported by Check.
const (
	CodeAddressShared           = "address_shared"
	CodeComplementaryOrphan     = "complementary_orphan"
	CodeComplementaryEmpty      = "complementary_empty"
	CodeComplementaryRWField    = "complementary_rw_field"
	CodeComplementaryMixed      = "complementary_mixed_access"
	CodeComplementaryDirection  = "complementary_same_direction"
	CodeWriteLockNotWritable    = "write_lock_not_writable"
	CodeFieldExceedsDataWidth   = "field_exceeds_data_width"
	CodeRegisterWithoutBitField = "register_without_bit_fields"
	CodeInitialExceedsWidth     = "initial_exceeds_width"
)

// Validate runs the whole-map checks that cannot be judged while the map is
// still being built. It must be called once the map is complete and before
// a generator reads it. The returned error wraps ErrInvariantViolation and
// lists every violation found.
func (m *RegisterMap) Validate() error {
	if err := m.Check().Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}

	return nil
}

// Check runs the same checks as Validate and returns every finding,
// including warnings that do not make the map invalid.
func (m *RegisterMap) Check() *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	// regs is sorted by address, so registers sharing one form a run.
	for start := 0; start < len(m.regs); {
		end := start + 1
		for end < len(m.regs) && m.regs[end].address == m.regs[start].address {
			end++
		}

		m.checkAddressGroup(res, m.regs[start:end])
		start = end
	}

	for _, r := range m.regs {
		name := mustName(r)

		if r.Len() == 0 {
			res.AddWarning(CodeRegisterWithoutBitField, "register has no bit fields", name, "")
		}

		if r.writeLock && !hasWritableField(r) {
			res.AddError(CodeWriteLockNotWritable,
				"write lock is set but no bit field is writable (wo or rw)", name, "")
		}

		for _, f := range r.fields {
			if f.Msb() >= m.settings.DataWidth {
				res.AddError(CodeFieldExceedsDataWidth,
					fmt.Sprintf("msb %d exceeds data width %d", f.Msb(), m.settings.DataWidth), name, f.name)
			}

			if !f.InitialFits() {
				res.AddWarning(CodeInitialExceedsWidth,
					fmt.Sprintf("initial value 0x%x is wider than %d bits and will be truncated", f.initial, f.width),
					name, f.name)
			}
		}
	}

	return res
}

func (m *RegisterMap) checkAddressGroup(res *diagnostic.Diagnostics, group []*Register) {
	first := mustName(group[0])

	switch len(group) {
	case 1:
		if group[0].complementary {
			res.AddError(CodeComplementaryOrphan,
				fmt.Sprintf("complementary register at 0x%x has no partner", group[0].address), first, "")
			checkComplementaryFields(res, group[0])
		}

		return
	case 2:
		if group[0].complementary && group[1].complementary {
			checkComplementaryPair(res, group[0], group[1])
			return
		}
	}

	res.AddError(CodeAddressShared,
		fmt.Sprintf("%d registers share address 0x%x; only a complementary pair may", len(group), group[0].address),
		first, "")
}

// checkComplementaryPair requires one register built only of ro fields and
// the other only of wo fields.
func checkComplementaryPair(res *diagnostic.Diagnostics, a, b *Register) {
	okA := checkComplementaryFields(res, a)
	okB := checkComplementaryFields(res, b)

	if !okA || !okB {
		return
	}

	if a.Access() == b.Access() {
		res.AddError(CodeComplementaryDirection,
			fmt.Sprintf("complementary pair %q and %q are both %s; one must be ro and the other wo",
				mustName(a), mustName(b), a.Access()),
			mustName(a), "")
	}
}

func checkComplementaryFields(res *diagnostic.Diagnostics, r *Register) bool {
	name := mustName(r)

	if r.Len() == 0 {
		res.AddError(CodeComplementaryEmpty, "complementary register has no bit fields", name, "")
		return false
	}

	ok := true

	for _, f := range r.fields {
		if f.access == AccessRW {
			res.AddError(CodeComplementaryRWField, "complementary register holds an rw bit field", name, f.name)

			ok = false
		}
	}

	if ok && r.Access() == AccessRW {
		res.AddError(CodeComplementaryMixed, "complementary register mixes ro and wo bit fields", name, "")

		ok = false
	}

	return ok
}

func hasWritableField(r *Register) bool {
	for _, f := range r.fields {
		if f.access.IsWritable() {
			return true
		}
	}

	return false
}
