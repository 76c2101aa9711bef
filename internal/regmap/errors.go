package regmap

import (
	"errors"
	"fmt"

	"regmap-generator/internal/config"
)

var (
	// ErrInvalidValue is returned when an attribute receives a value
	// outside its type, range or enum contract.
	ErrInvalidValue = config.ErrInvalidValue
	// ErrConflict is returned on structural collisions: duplicate names,
	// overlapping bit ranges, misassigned or shared addresses.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned by lookups with an unknown name or an
	// out-of-range index.
	ErrNotFound = errors.New("not found")
	// ErrInvariantViolation is returned when a whole-map rule is broken.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNoName is returned when a register has no explicit name and
	// cannot take one from a single bit field.
	ErrNoName = fmt.Errorf("%w: register has no name and does not hold exactly one bit field", ErrInvalidValue)
)

// NameNotFoundError reports a lookup by an unknown name.
type NameNotFoundError struct {
	// Kind is "bit field" or "register".
	Kind string
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NameNotFoundError) Unwrap() error { return ErrNotFound }

// IndexNotFoundError reports a lookup by an index outside [0, Len).
type IndexNotFoundError struct {
	// Kind is "bit field" or "register".
	Kind  string
	Index int
	Len   int
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexNotFoundError) Unwrap() error { return ErrNotFound }

const (
	kindBitField = "bit field"
	kindRegister = "register"
)
