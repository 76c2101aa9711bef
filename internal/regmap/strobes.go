package regmap

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ByteStrobe describes the part of a bit field that falls into one 8-bit
// lane of the write data bus.
type ByteStrobe struct {
	// BfLsb and BfMsb locate the part inside the field, counting from 0.
	BfLsb int
	BfMsb int
	// WdataLsb and WdataMsb locate the part on the write data bus.
	WdataLsb int
	WdataMsb int
}

// ByteStrobes maps a byte lane index to the field bits inside that lane.
type ByteStrobes map[int]ByteStrobe

// ByteStrobes splits the field across the byte lanes it touches. Lane b
// covers bus bits [8b, 8b+7].
func (bf *BitField) ByteStrobes() ByteStrobes {
	msb := bf.Msb()
	out := make(ByteStrobes, msb/8-bf.lsb/8+1)

	for lane := bf.lsb / 8; lane <= msb/8; lane++ {
		lo := max(bf.lsb, lane*8)
		hi := min(msb, lane*8+7)

		out[lane] = ByteStrobe{
			BfLsb:    lo - bf.lsb,
			BfMsb:    hi - bf.lsb,
			WdataLsb: lo,
			WdataMsb: hi,
		}
	}

	return out
}

// Lanes returns the lane indexes in ascending order.
func (s ByteStrobes) Lanes() []int {
	return slices.Sorted(maps.Keys(s))
}

func (s ByteStrobes) String() string {
	parts := make([]string, 0, len(s))
	for _, lane := range s.Lanes() {
		b := s[lane]
		parts = append(parts, fmt.Sprintf("%d:{bf[%d:%d] wdata[%d:%d]}", lane, b.BfMsb, b.BfLsb, b.WdataMsb, b.WdataLsb))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
