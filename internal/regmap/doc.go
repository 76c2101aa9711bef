// Package regmap is the validated data model of a register map: bit
// fields, registers and the map that lays registers out in an address
// space.
//
// # Model
//
//   - A BitField is a named slice [lsb, msb] of a register with an access
//     mode (ro, wo, rw) and optional modifiers legal for that mode.
//   - A Register owns an ordered set of bit fields. Field names are unique,
//     field ranges never overlap, and fields are always kept in ascending
//     lsb order.
//   - A RegisterMap owns an ordered set of registers. Register names are
//     unique, addresses follow the configured alignment and increment
//     policy, and registers are always kept in ascending address order.
//
// # Validation
//
// Validation runs in two phases. Every setter and every AddBitFields /
// AddRegisters call checks the local invariants it can judge on its own
// and fails without changing anything. Checks that need the finished map,
// such as complementary register pairing and write locks, run only when
// the caller invokes RegisterMap.Validate, which must happen before the
// map is handed to a generator.
//
// # Errors
//
// Every error wraps exactly one of ErrInvalidValue, ErrConflict,
// ErrNotFound or ErrInvariantViolation; use errors.Is to classify.
//
// # Concurrency
//
// The package does no locking. Mutating a map, or a register or field
// that belongs to one, needs external mutual exclusion. A map that is no
// longer mutated may be read from any number of goroutines.
package regmap
