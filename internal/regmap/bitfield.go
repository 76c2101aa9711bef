package regmap

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s name is empty", ErrInvalidValue, kind)
	}

	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %s name %q is not an identifier", ErrInvalidValue, kind, name)
	}

	return nil
}

// BitField is a named, contiguous range of bits inside a register.
//
// All attributes except the description are validated when the field is
// created and again on every setter call; a failed setter leaves the field
// unchanged. Once added to a register, the field belongs to it and setters
// that move or rename the field are also checked against its siblings.
type BitField struct {
	name        string
	description string
	initial     uint64
	width       int
	lsb         int
	access      Access
	modifiers   []Modifier

	owner *Register
}

// BitFieldOption configures a BitField at construction.
type BitFieldOption func(*BitField)

// WithDescription sets the field description.
func WithDescription(s string) BitFieldOption {
	return func(bf *BitField) { bf.description = s }
}

// WithInitial sets the reset value.
func WithInitial(v uint64) BitFieldOption {
	return func(bf *BitField) { bf.initial = v }
}

// WithWidth sets the number of bits.
func WithWidth(w int) BitFieldOption {
	return func(bf *BitField) { bf.width = w }
}

// WithLsb sets the position of the least significant bit.
func WithLsb(lsb int) BitFieldOption {
	return func(bf *BitField) { bf.lsb = lsb }
}

// WithAccess sets the access mode.
func WithAccess(a Access) BitFieldOption {
	return func(bf *BitField) { bf.access = a }
}

// WithModifiers sets the modifiers.
func WithModifiers(mods ...Modifier) BitFieldOption {
	return func(bf *BitField) { bf.modifiers = slices.Clone(mods) }
}

// NewBitField creates a bit field. Unset attributes default to an empty
// description, initial 0, width 1, lsb 0, access rw and no modifiers.
func NewBitField(name string, opts ...BitFieldOption) (*BitField, error) {
	bf := &BitField{
		name:   name,
		width:  1,
		access: AccessRW,
	}

	for _, opt := range opts {
		opt(bf)
	}

	if err := bf.validate(); err != nil {
		return nil, err
	}

	return bf, nil
}

func (bf *BitField) validate() error {
	if err := validateName(kindBitField, bf.name); err != nil {
		return err
	}

	if err := checkSpan(bf.lsb, bf.width); err != nil {
		return bf.wrap(err)
	}

	if !bf.access.IsValid() {
		return bf.wrap(fmt.Errorf("%w: unknown access %s", ErrInvalidValue, bf.access))
	}

	if err := validateModifiers(bf.modifiers, bf.access); err != nil {
		return bf.wrap(err)
	}

	return nil
}

func (bf *BitField) wrap(err error) error {
	return fmt.Errorf("bit field %q: %w", bf.name, err)
}

// MaxBits bounds the bit positions a field may occupy: lsb+width must not
// exceed it.
const MaxBits = 1 << 16

// checkSpan checks lsb and width on their own and together, so that msb is
// always defined and below MaxBits.
func checkSpan(lsb, width int) error {
	if lsb < 0 {
		return fmt.Errorf("%w: lsb must be non-negative, got %d", ErrInvalidValue, lsb)
	}

	if width < 1 {
		return fmt.Errorf("%w: width must be at least 1, got %d", ErrInvalidValue, width)
	}

	if lsb >= MaxBits || width > MaxBits-lsb {
		return fmt.Errorf("%w: lsb %d and width %d reach past bit %d", ErrInvalidValue, lsb, width, MaxBits-1)
	}

	return nil
}

// InitialFits reports whether the reset value fits in the field width.
func (bf *BitField) InitialFits() bool {
	return bf.width >= 64 || bf.initial>>uint(bf.width) == 0
}

// Name returns the field name.
func (bf *BitField) Name() string { return bf.name }

// Description returns the field description.
func (bf *BitField) Description() string { return bf.description }

// Initial returns the reset value.
func (bf *BitField) Initial() uint64 { return bf.initial }

// Width returns the number of bits.
func (bf *BitField) Width() int { return bf.width }

// Lsb returns the position of the least significant bit.
func (bf *BitField) Lsb() int { return bf.lsb }

// Msb returns the position of the most significant bit.
func (bf *BitField) Msb() int { return bf.lsb + bf.width - 1 }

// Access returns the access mode.
func (bf *BitField) Access() Access { return bf.access }

// Modifiers returns a copy of the modifiers.
func (bf *BitField) Modifiers() []Modifier { return slices.Clone(bf.modifiers) }

// HasModifier reports whether m is set on the field.
func (bf *BitField) HasModifier(m Modifier) bool { return slices.Contains(bf.modifiers, m) }

// Register returns the register the field belongs to, or nil.
func (bf *BitField) Register() *Register { return bf.owner }

// Bits returns the absolute bit positions lsb..msb in ascending order.
func (bf *BitField) Bits() []int {
	bits := make([]int, bf.width)
	for i := range bits {
		bits[i] = bf.lsb + i
	}

	return bits
}

// SetName renames the field.
func (bf *BitField) SetName(name string) error {
	if err := validateName(kindBitField, name); err != nil {
		return err
	}

	if bf.owner != nil {
		if err := bf.owner.checkFieldRename(bf, name); err != nil {
			return err
		}
	}

	bf.name = name
	bf.changed()

	return nil
}

// SetDescription sets the description.
func (bf *BitField) SetDescription(s string) {
	bf.description = s
}

// SetInitial sets the reset value. A value wider than the field is
// reported by RegisterMap.Check, not rejected here.
func (bf *BitField) SetInitial(v uint64) error {
	bf.initial = v
	return nil
}

// SetWidth sets the number of bits.
func (bf *BitField) SetWidth(width int) error {
	if err := checkSpan(bf.lsb, width); err != nil {
		return bf.wrap(err)
	}

	if bf.owner != nil {
		if err := bf.owner.checkFieldPlacement(bf, bf.lsb, width); err != nil {
			return err
		}
	}

	bf.width = width
	bf.changed()

	return nil
}

// SetLsb moves the field.
func (bf *BitField) SetLsb(lsb int) error {
	if err := checkSpan(lsb, bf.width); err != nil {
		return bf.wrap(err)
	}

	if bf.owner != nil {
		if err := bf.owner.checkFieldPlacement(bf, lsb, bf.width); err != nil {
			return err
		}
	}

	bf.lsb = lsb
	bf.changed()

	return nil
}

// SetAccess changes the access mode. It fails if a current modifier is not
// legal with the new mode.
func (bf *BitField) SetAccess(a Access) error {
	if !a.IsValid() {
		return bf.wrap(fmt.Errorf("%w: unknown access %s", ErrInvalidValue, a))
	}

	if err := validateModifiers(bf.modifiers, a); err != nil {
		return bf.wrap(err)
	}

	bf.access = a

	return nil
}

// SetModifiers replaces the modifiers. Each must be legal with the current
// access mode.
func (bf *BitField) SetModifiers(mods ...Modifier) error {
	if err := validateModifiers(mods, bf.access); err != nil {
		return bf.wrap(err)
	}

	bf.modifiers = slices.Clone(mods)

	return nil
}

func (bf *BitField) changed() {
	if bf.owner != nil {
		bf.owner.fieldsChanged()
	}
}

// Equal reports whether two fields have the same attributes.
// The owning register is not compared.
func (bf *BitField) Equal(other *BitField) bool {
	if bf == nil || other == nil {
		return bf == other
	}

	return bf.name == other.name &&
		bf.description == other.description &&
		bf.initial == other.initial &&
		bf.width == other.width &&
		bf.lsb == other.lsb &&
		bf.access == other.access &&
		slices.Equal(bf.modifiers, other.modifiers)
}

// Clone returns a deep copy that belongs to no register.
func (bf *BitField) Clone() *BitField {
	c := *bf
	c.modifiers = slices.Clone(bf.modifiers)
	c.owner = nil

	return &c
}

func (bf *BitField) String() string {
	mods := make([]string, len(bf.modifiers))
	for i, m := range bf.modifiers {
		mods[i] = string(m)
	}

	return fmt.Sprintf("BitField(%q, %q, initial=0x%x, width=%d, lsb=%d, msb=%d, access=%s, modifiers=[%s])",
		bf.name, bf.description, bf.initial, bf.width, bf.lsb, bf.Msb(), bf.access, strings.Join(mods, ", "))
}
