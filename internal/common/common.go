package common

// UnknownStr is the string form of an enum value outside its known range.
const UnknownStr = "unknown"

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IsInRange checks if a value is within the specified range, both inclusive.
func IsInRange[T integer](lo T, value T, hi T) bool {
	return lo <= value && value <= hi
}

// Overlaps reports whether the inclusive ranges [aLo, aHi] and [bLo, bHi] intersect.
func Overlaps[T integer](aLo, aHi, bLo, bHi T) bool {
	return aLo <= bHi && bLo <= aHi
}
