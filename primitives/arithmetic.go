package primitives

import "github.com/holiman/uint256"

// CheckedAddU64 adds a and b, reporting overflow instead of wrapping. It
// widens both operands into a uint256.Int and checks the result against
// the u64 range rather than relying on the `sum < a` wraparound idiom, the
// same pattern the teacher uses for balance arithmetic in core/types.
func CheckedAddU64(a, b uint64) (sum uint64, overflowed bool) {
	x := uint256.NewInt(a)
	y := uint256.NewInt(b)
	result := new(uint256.Int).Add(x, y)
	if !result.IsUint64() {
		return 0, true
	}
	return result.Uint64(), false
}
