package stake

import (
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/iotaledger/zerostake/pkg/model"
)

var maxTarget = new(uint256.Int).SetAllOne()

// TargetFromCompact decodes a compact difficulty target. Negative targets decode to zero, targets that
// do not fit into 256 bits saturate.
func TargetFromCompact(compact uint32) *uint256.Int {
	exponent := uint(compact >> 24)
	mantissa := uint64(compact & 0x007fffff)

	if compact&0x00800000 != 0 || mantissa == 0 {
		return new(uint256.Int)
	}

	if exponent <= 3 {
		return uint256.NewInt(mantissa >> (8 * (3 - exponent)))
	}

	shift := 8 * (exponent - 3)
	if shift+uint(bits.Len64(mantissa)) > 256 {
		return new(uint256.Int).Set(maxTarget)
	}

	return new(uint256.Int).Lsh(uint256.NewInt(mantissa), shift)
}

// CompactFromTarget encodes a target in the compact representation.
func CompactFromTarget(target *uint256.Int) uint32 {
	size := uint32((target.BitLen() + 7) / 8)

	var mantissa uint32
	if size <= 3 {
		mantissa = uint32(target.Uint64() << (8 * (3 - size)))
	} else {
		mantissa = uint32(new(uint256.Int).Rsh(target, uint(8*(size-3))).Uint64())
	}

	// the sign bit is set, move one byte into the exponent
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		size++
	}

	return size<<24 | mantissa
}

// WeightedTarget scales a target by the value of a stake input.
func WeightedTarget(bits uint32, value int64) *uint256.Int {
	if value <= 0 {
		return new(uint256.Int)
	}

	weighted, overflow := new(uint256.Int).MulOverflow(TargetFromCompact(bits), uint256.NewInt(uint64(value)))
	if overflow {
		return new(uint256.Int).Set(maxTarget)
	}

	return weighted
}

// MeetsTarget checks a kernel hash against the target weighted by the staked value.
func MeetsTarget(kernelHash model.Identifier, bits uint32, value int64) bool {
	hash := new(uint256.Int).SetBytes32(kernelHash[:])

	return !hash.Gt(WeightedTarget(bits, value))
}
