package regmap

import (
	"fmt"
	"slices"
	"strings"

	"regmap-generator/internal/common"
	"regmap-generator/internal/config"
)

// RegisterMap is an address-ordered set of registers laid out under one
// configuration snapshot.
type RegisterMap struct {
	settings config.Settings

	// regs is kept sorted by address, index maps a register name to its position.
	regs  []*Register
	index map[string]int
}

// New creates an empty map that lays registers out according to settings.
func New(settings config.Settings) (*RegisterMap, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &RegisterMap{settings: settings, index: map[string]int{}}, nil
}

// NewDefault creates an empty map with the default settings.
func NewDefault() *RegisterMap {
	return &RegisterMap{settings: config.DefaultSettings(), index: map[string]int{}}
}

// FromConfig creates an empty map from a snapshot of cfg taken now.
func FromConfig(cfg *config.Configuration) (*RegisterMap, error) {
	return New(cfg.Snapshot())
}

// Settings returns the configuration snapshot the map was created with.
func (m *RegisterMap) Settings() config.Settings { return m.settings }

// Len returns the number of registers.
func (m *RegisterMap) Len() int { return len(m.regs) }

// Registers returns the registers in ascending address order.
func (m *RegisterMap) Registers() []*Register { return slices.Clone(m.regs) }

// Names returns the register names in ascending address order.
func (m *RegisterMap) Names() []string {
	names := make([]string, len(m.regs))
	for i, r := range m.regs {
		names[i] = mustName(r)
	}

	return names
}

// Register looks a register up by name. It fails with *NameNotFoundError.
func (m *RegisterMap) Register(name string) (*Register, error) {
	i, ok := m.index[name]
	if !ok {
		return nil, &NameNotFoundError{Kind: kindRegister, Name: name}
	}

	return m.regs[i], nil
}

// RegisterAt returns the register at a position in address order. It
// fails with *IndexNotFoundError.
func (m *RegisterMap) RegisterAt(i int) (*Register, error) {
	if !common.IsInRange(0, i, len(m.regs)-1) {
		return nil, &IndexNotFoundError{Kind: kindRegister, Index: i, Len: len(m.regs)}
	}

	return m.regs[i], nil
}

// slot is a register paired with the address it has, or will get once an
// AddRegisters call commits.
type slot struct {
	reg  *Register
	addr uint64
}

func (m *RegisterMap) slots() []slot {
	out := make([]slot, len(m.regs))
	for i, r := range m.regs {
		out[i] = slot{reg: r, addr: r.address}
	}

	return out
}

// AddRegisters appends registers one at a time. Each register gets its
// address resolved and is checked against the registers already in the
// map and the ones before it in the same call. Either every register is
// added or none is.
//
// A register without an address is placed after the register with the
// highest address, using the configured increment.
func (m *RegisterMap) AddRegisters(regs ...*Register) error {
	staged := m.slots()

	for _, r := range regs {
		if r == nil {
			return fmt.Errorf("%w: nil register", ErrInvalidValue)
		}

		if r.owner != nil || slices.ContainsFunc(staged, func(s slot) bool { return s.reg == r }) {
			return fmt.Errorf("%s: %w: already belongs to a register map", r.label(), ErrConflict)
		}

		name, err := r.Name()
		if err != nil {
			return fmt.Errorf("%s: %w", r.label(), err)
		}

		if slices.ContainsFunc(staged, func(s slot) bool { return mustName(s.reg) == name }) {
			return fmt.Errorf("%w: register name %q is already used", ErrConflict, name)
		}

		addr, err := m.resolveAddress(staged, r)
		if err != nil {
			return err
		}

		if err := m.checkAlignment(r, addr); err != nil {
			return err
		}

		if err := m.checkAddress(staged, r, addr, r.complementary); err != nil {
			return err
		}

		for _, f := range r.fields {
			if err := m.checkFieldWidth(r, f.name, f.Msb()); err != nil {
				return err
			}
		}

		staged = append(staged, slot{reg: r, addr: addr})
		slices.SortStableFunc(staged, func(a, b slot) int { return cmpAddr(a.addr, b.addr) })
	}

	m.regs = m.regs[:0]

	for _, s := range staged {
		s.reg.address, s.reg.hasAddress = s.addr, true
		s.reg.owner = m
		m.regs = append(m.regs, s.reg)
	}

	m.reindex()

	return nil
}

// checkPlacement checks an address change or a complementary flag change
// of a register already in the map.
func (m *RegisterMap) checkPlacement(r *Register, addr uint64, complementary bool) error {
	if err := m.checkAlignment(r, addr); err != nil {
		return err
	}

	return m.checkAddress(m.slots(), r, addr, complementary)
}

func (m *RegisterMap) checkRename(r *Register, name string) error {
	if i, ok := m.index[name]; ok && m.regs[i] != r {
		return fmt.Errorf("%w: register name %q is already used", ErrConflict, name)
	}

	return nil
}

// checkFieldWidth checks that a field of r ends inside the data bus.
func (m *RegisterMap) checkFieldWidth(r *Register, field string, msb int) error {
	if msb >= m.settings.DataWidth {
		return fmt.Errorf("%s: %w: bit field %q msb %d exceeds data width %d",
			r.label(), ErrInvariantViolation, field, msb, m.settings.DataWidth)
	}

	return nil
}

func (m *RegisterMap) registersChanged() {
	slices.SortStableFunc(m.regs, func(a, b *Register) int { return cmpAddr(a.address, b.address) })
	m.reindex()
}

func (m *RegisterMap) reindex() {
	m.index = make(map[string]int, len(m.regs))
	for i, r := range m.regs {
		m.index[mustName(r)] = i
	}
}

func cmpAddr(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// mustName returns the name of a register that is in a map, or is about
// to be; AddRegisters refuses registers without one.
func mustName(r *Register) string {
	name, err := r.Name()
	if err != nil {
		panic(err)
	}

	return name
}

// Equal reports whether two maps have the same settings and equal registers.
func (m *RegisterMap) Equal(other *RegisterMap) bool {
	if m == nil || other == nil {
		return m == other
	}

	return m.settings == other.settings &&
		slices.EqualFunc(m.regs, other.regs, (*Register).Equal)
}

// Clone returns a deep copy.
func (m *RegisterMap) Clone() *RegisterMap {
	c := &RegisterMap{
		settings: m.settings,
		regs:     make([]*Register, len(m.regs)),
	}

	for i, r := range m.regs {
		rc := r.Clone()
		rc.owner = c
		c.regs[i] = rc
	}

	c.reindex()

	return c
}

func (m *RegisterMap) String() string {
	var sb strings.Builder

	s := m.settings
	fmt.Fprintf(&sb, "RegisterMap(data_width=%d, address_alignment=%s/%d, address_increment=%s/%d)",
		s.DataWidth, s.AlignmentMode, s.AlignmentValue, s.IncrementMode, s.IncrementValue)

	for _, r := range m.regs {
		sb.WriteString("\n  ")
		sb.WriteString(strings.ReplaceAll(r.String(), "\n", "\n  "))
	}

	return sb.String()
}
