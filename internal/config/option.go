package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidValue is returned when an option receives a value of the
	// wrong type or outside its legal set.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownOption is returned when a group or option name is not defined.
	ErrUnknownOption = errors.New("unknown option")
)

// OptionKind tells how an option value is typed.
type OptionKind int

const (
	// OptionInt options hold a non-negative integer.
	OptionInt OptionKind = iota
	// OptionEnum options hold one string out of a fixed set.
	OptionEnum
)

// Option is a single named configuration value.
type Option struct {
	name        string
	kind        OptionKind
	description string

	defInt int
	defStr string

	// intChoices restricts an OptionInt to a fixed set when non-empty.
	intChoices []int
	strChoices []string

	intVal int
	strVal string
}

func newIntOption(name, description string, def int, choices ...int) *Option {
	return &Option{
		name:        name,
		kind:        OptionInt,
		description: description,
		defInt:      def,
		intChoices:  choices,
		intVal:      def,
	}
}

func newEnumOption(name, description, def string, choices ...string) *Option {
	return &Option{
		name:        name,
		kind:        OptionEnum,
		description: description,
		defStr:      def,
		strChoices:  choices,
		strVal:      def,
	}
}

// Name returns the option name.
func (o *Option) Name() string { return o.name }

// Kind returns the option kind.
func (o *Option) Kind() OptionKind { return o.kind }

// Description returns the option help text.
func (o *Option) Description() string { return o.description }

// Value returns the current value as an int or a string.
func (o *Option) Value() any {
	if o.kind == OptionInt {
		return o.intVal
	}

	return o.strVal
}

// Default returns the default value as an int or a string.
func (o *Option) Default() any {
	if o.kind == OptionInt {
		return o.defInt
	}

	return o.defStr
}

// Int returns the value of an integer option. It is zero for enum options.
func (o *Option) Int() int { return o.intVal }

// Str returns the value of an enum option. It is empty for integer options.
func (o *Option) Str() string { return o.strVal }

// Choices returns the legal values, or nil when any non-negative integer is accepted.
func (o *Option) Choices() []any {
	var out []any

	for _, c := range o.intChoices {
		out = append(out, c)
	}

	for _, c := range o.strChoices {
		out = append(out, c)
	}

	return out
}

// Set validates and stores a new value. Integer options accept only Go
// int values, enum options only strings.
func (o *Option) Set(value any) error {
	switch o.kind {
	case OptionInt:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: option %q expects an integer, got %T(%v)", ErrInvalidValue, o.name, value, value)
		}

		if v < 0 {
			return fmt.Errorf("%w: option %q must be non-negative, got %d", ErrInvalidValue, o.name, v)
		}

		if len(o.intChoices) > 0 && !slices.Contains(o.intChoices, v) {
			return fmt.Errorf("%w: option %q must be one of %v, got %d", ErrInvalidValue, o.name, o.intChoices, v)
		}

		o.intVal = v

	case OptionEnum:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: option %q expects a string, got %T(%v)", ErrInvalidValue, o.name, value, value)
		}

		if !slices.Contains(o.strChoices, v) {
			return fmt.Errorf("%w: option %q must be one of [%s], got %q",
				ErrInvalidValue, o.name, strings.Join(o.strChoices, ", "), v)
		}

		o.strVal = v
	}

	return nil
}

// Reset restores the default value.
func (o *Option) Reset() {
	o.intVal = o.defInt
	o.strVal = o.defStr
}

func (o *Option) clone() *Option {
	c := *o
	c.intChoices = slices.Clone(o.intChoices)
	c.strChoices = slices.Clone(o.strChoices)

	return &c
}
