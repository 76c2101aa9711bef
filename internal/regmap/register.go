package regmap

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"regmap-generator/internal/common"
)

// Register is a set of bit fields that share one address.
type Register struct {
	name          string
	description   string
	address       uint64
	hasAddress    bool
	complementary bool
	writeLock     bool
	accessStrobes bool

	// fields is kept sorted by lsb, index maps a field name to its position.
	fields []*BitField
	index  map[string]int

	owner *RegisterMap
}

// RegisterOption configures a Register at construction.
type RegisterOption func(*Register) error

// WithRegisterName sets an explicit register name.
func WithRegisterName(name string) RegisterOption {
	return func(r *Register) error {
		if err := validateName(kindRegister, name); err != nil {
			return err
		}

		r.name = name

		return nil
	}
}

// WithRegisterDescription sets the register description.
func WithRegisterDescription(s string) RegisterOption {
	return func(r *Register) error {
		r.description = s
		return nil
	}
}

// WithAddress sets an explicit address.
func WithAddress(addr uint64) RegisterOption {
	return func(r *Register) error {
		r.address, r.hasAddress = addr, true
		return nil
	}
}

// WithAddressString sets an explicit address given as a "0x" prefixed
// hexadecimal string.
func WithAddressString(s string) RegisterOption {
	return func(r *Register) error {
		addr, err := ParseAddress(s)
		if err != nil {
			return err
		}

		r.address, r.hasAddress = addr, true

		return nil
	}
}

// WithComplementary marks the register as one half of a complementary pair.
func WithComplementary(b bool) RegisterOption {
	return func(r *Register) error {
		r.complementary = b
		return nil
	}
}

// WithWriteLock sets the write lock flag.
func WithWriteLock(b bool) RegisterOption {
	return func(r *Register) error {
		r.writeLock = b
		return nil
	}
}

// WithAccessStrobes sets the access strobes flag.
func WithAccessStrobes(b bool) RegisterOption {
	return func(r *Register) error {
		r.accessStrobes = b
		return nil
	}
}

// NewRegister creates an empty register.
func NewRegister(opts ...RegisterOption) (*Register, error) {
	r := &Register{index: map[string]int{}}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ParseAddress parses a "0x" prefixed hexadecimal address.
func ParseAddress(s string) (uint64, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok {
		digits, ok = strings.CutPrefix(s, "0X")
	}

	if !ok || digits == "" {
		return 0, fmt.Errorf("%w: address %q is not a 0x prefixed hexadecimal number", ErrInvalidValue, s)
	}

	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: address %q: %w", ErrInvalidValue, s, err)
	}

	return addr, nil
}

// Name returns the explicit name, or the name of the only bit field when
// no explicit name was given. It fails with ErrNoName otherwise.
func (r *Register) Name() (string, error) {
	if r.name != "" {
		return r.name, nil
	}

	if f, ok := common.First(r.fields); ok && common.IsSingle(r.fields) {
		return f.name, nil
	}

	return "", ErrNoName
}

// HasExplicitName reports whether the name was set on the register itself.
func (r *Register) HasExplicitName() bool { return r.name != "" }

// Description returns the description. A register without an explicit
// name takes the description of its only bit field.
func (r *Register) Description() string {
	if r.name == "" && common.IsSingle(r.fields) {
		return r.fields[0].description
	}

	return r.description
}

// ExplicitDescription returns the description set on the register itself,
// without falling back to the bit field of an unnamed register.
func (r *Register) ExplicitDescription() string { return r.description }

// Address returns the address and whether one is assigned.
func (r *Register) Address() (uint64, bool) { return r.address, r.hasAddress }

// Complementary reports whether the register is half of a complementary pair.
func (r *Register) Complementary() bool { return r.complementary }

// WriteLock returns the write lock flag.
func (r *Register) WriteLock() bool { return r.writeLock }

// AccessStrobes returns the access strobes flag.
func (r *Register) AccessStrobes() bool { return r.accessStrobes }

// Map returns the register map the register belongs to, or nil.
func (r *Register) Map() *RegisterMap { return r.owner }

// Access returns the combined access of the fields: ro when every field is
// ro, wo when every field is wo, rw otherwise. It is zero for a register
// without fields.
func (r *Register) Access() Access {
	var readable, writable bool

	for _, f := range r.fields {
		readable = readable || f.access.IsReadable()
		writable = writable || f.access.IsWritable()
	}

	switch {
	case readable && writable:
		return AccessRW
	case readable:
		return AccessRO
	case writable:
		return AccessWO
	default:
		return 0
	}
}

// Len returns the number of bit fields.
func (r *Register) Len() int { return len(r.fields) }

// Fields returns the bit fields in ascending lsb order.
func (r *Register) Fields() []*BitField { return slices.Clone(r.fields) }

// Names returns the bit field names in ascending lsb order.
func (r *Register) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}

	return names
}

// Field looks a bit field up by name. It fails with *NameNotFoundError.
func (r *Register) Field(name string) (*BitField, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, &NameNotFoundError{Kind: kindBitField, Name: name}
	}

	return r.fields[i], nil
}

// FieldAt returns the bit field at a position in lsb order. It fails with
// *IndexNotFoundError.
func (r *Register) FieldAt(i int) (*BitField, error) {
	if !common.IsInRange(0, i, len(r.fields)-1) {
		return nil, &IndexNotFoundError{Kind: kindBitField, Index: i, Len: len(r.fields)}
	}

	return r.fields[i], nil
}

// AddBitFields appends bit fields one at a time, each checked against the
// fields before it. Either every field is added or none is.
func (r *Register) AddBitFields(fields ...*BitField) error {
	staged := slices.Clone(r.fields)

	for _, bf := range fields {
		if bf == nil {
			return fmt.Errorf("%s: %w: nil bit field", r.label(), ErrInvalidValue)
		}

		if bf.owner != nil || slices.Contains(staged, bf) {
			return fmt.Errorf("%s: %w: bit field %q already belongs to a register", r.label(), ErrConflict, bf.name)
		}

		if err := r.checkAgainst(staged, bf, bf.name, bf.lsb, bf.width); err != nil {
			return err
		}

		staged = append(staged, bf)
	}

	if r.owner != nil && r.name == "" && !common.IsSingle(staged) {
		return fmt.Errorf("%s: %w", r.label(), ErrNoName)
	}

	for _, bf := range fields {
		bf.owner = r
	}

	r.fields = staged
	r.fieldsChanged()

	return nil
}

// checkAgainst checks a field with the given name and placement against
// fields, ignoring self.
func (r *Register) checkAgainst(fields []*BitField, self *BitField, name string, lsb, width int) error {
	msb := lsb + width - 1

	for _, other := range fields {
		if other == self {
			continue
		}

		if other.name == name {
			return fmt.Errorf("%s: %w: bit field name %q is already used", r.label(), ErrConflict, name)
		}
	}

	for _, other := range fields {
		if other == self {
			continue
		}

		if common.Overlaps(lsb, msb, other.lsb, other.Msb()) {
			return fmt.Errorf("%s: %w: bit field %q [%d:%d] overlaps %q [%d:%d]",
				r.label(), ErrConflict, name, msb, lsb, other.name, other.Msb(), other.lsb)
		}
	}

	if r.owner != nil {
		return r.owner.checkFieldWidth(r, name, msb)
	}

	return nil
}

func (r *Register) checkFieldRename(bf *BitField, name string) error {
	if err := r.checkAgainst(r.fields, bf, name, bf.lsb, bf.width); err != nil {
		return err
	}

	// The field name is the register name when the register has none.
	if r.owner != nil && r.name == "" {
		return r.owner.checkRename(r, name)
	}

	return nil
}

func (r *Register) checkFieldPlacement(bf *BitField, lsb, width int) error {
	return r.checkAgainst(r.fields, bf, bf.name, lsb, width)
}

func (r *Register) fieldsChanged() {
	slices.SortStableFunc(r.fields, func(a, b *BitField) int { return a.lsb - b.lsb })

	r.index = make(map[string]int, len(r.fields))
	for i, f := range r.fields {
		r.index[f.name] = i
	}

	if r.owner != nil {
		r.owner.registersChanged()
	}
}

// SetName sets the explicit name. An empty name clears it, which is only
// allowed while the register can take its name from a single bit field or
// does not belong to a map.
func (r *Register) SetName(name string) error {
	if name != "" {
		if err := validateName(kindRegister, name); err != nil {
			return err
		}
	}

	if r.owner != nil {
		effective := name
		if effective == "" {
			if !common.IsSingle(r.fields) {
				return fmt.Errorf("%s: %w", r.label(), ErrNoName)
			}

			effective = r.fields[0].name
		}

		if err := r.owner.checkRename(r, effective); err != nil {
			return err
		}
	}

	r.name = name

	if r.owner != nil {
		r.owner.registersChanged()
	}

	return nil
}

// SetDescription sets the description.
func (r *Register) SetDescription(s string) {
	r.description = s
}

// SetAddress assigns an address. A register in a map is checked against
// the map's alignment and address rules first.
func (r *Register) SetAddress(addr uint64) error {
	if r.owner != nil {
		if err := r.owner.checkPlacement(r, addr, r.complementary); err != nil {
			return err
		}
	}

	r.address, r.hasAddress = addr, true

	if r.owner != nil {
		r.owner.registersChanged()
	}

	return nil
}

// SetAddressString assigns an address given as a "0x" prefixed hexadecimal string.
func (r *Register) SetAddressString(s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}

	return r.SetAddress(addr)
}

// ClearAddress removes the address so a map derives one. It fails once the
// register belongs to a map.
func (r *Register) ClearAddress() error {
	if r.owner != nil {
		return fmt.Errorf("%s: %w: cannot clear the address of a register in a map", r.label(), ErrConflict)
	}

	r.address, r.hasAddress = 0, false

	return nil
}

// SetComplementary sets the complementary flag.
func (r *Register) SetComplementary(b bool) error {
	if r.owner != nil {
		if err := r.owner.checkPlacement(r, r.address, b); err != nil {
			return err
		}
	}

	r.complementary = b

	return nil
}

// SetWriteLock sets the write lock flag. Whether the register has a
// writable field is checked by RegisterMap.Validate.
func (r *Register) SetWriteLock(b bool) {
	r.writeLock = b
}

// SetAccessStrobes sets the access strobes flag.
func (r *Register) SetAccessStrobes(b bool) {
	r.accessStrobes = b
}

// label names the register in error messages.
func (r *Register) label() string {
	if name, err := r.Name(); err == nil {
		return "register " + strconv.Quote(name)
	}

	if r.hasAddress {
		return fmt.Sprintf("register at 0x%x", r.address)
	}

	return "unnamed register"
}

// Equal reports whether two registers have the same attributes and equal
// bit fields. The owning map is not compared.
func (r *Register) Equal(other *Register) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.name == other.name &&
		r.description == other.description &&
		r.address == other.address &&
		r.hasAddress == other.hasAddress &&
		r.complementary == other.complementary &&
		r.writeLock == other.writeLock &&
		r.accessStrobes == other.accessStrobes &&
		slices.EqualFunc(r.fields, other.fields, (*BitField).Equal)
}

// Clone returns a deep copy that belongs to no map.
func (r *Register) Clone() *Register {
	c := *r
	c.owner = nil
	c.fields = make([]*BitField, len(r.fields))
	c.index = make(map[string]int, len(r.fields))

	for i, f := range r.fields {
		fc := f.Clone()
		fc.owner = &c
		c.fields[i] = fc
		c.index[fc.name] = i
	}

	return &c
}

func (r *Register) String() string {
	var sb strings.Builder

	name, err := r.Name()
	if err != nil {
		name = "<unnamed>"
	}

	addr := "none"
	if r.hasAddress {
		addr = fmt.Sprintf("0x%x", r.address)
	}

	fmt.Fprintf(&sb, "Register(%q, %q, address=%s, complementary=%t, write_lock=%t, access_strobes=%t)",
		name, r.Description(), addr, r.complementary, r.writeLock, r.accessStrobes)

	for _, f := range r.fields {
		sb.WriteString("\n  ")
		sb.WriteString(f.String())
	}

	return sb.String()
}
