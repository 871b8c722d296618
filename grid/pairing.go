package grid

import "math"

// MaxCoord bounds the cell coordinates accepted by Pair. Larger magnitudes
// are clamped, which keeps every folded value below 2^31 and every pair id
// inside uint64.
const MaxCoord = 1 << 30

// Pair maps an integer coordinate pair to a unique id. Negative values are
// folded into the naturals (x>=0 -> 2x, x<0 -> -2x-1) before Szudzik's
// elegant pairing is applied.
func Pair(x, y int) uint64 {
	return elegant(fold(x), fold(y))
}

// Unpair inverts Pair.
func Unpair(z uint64) (x, y int) {
	a, b := unelegant(z)
	return unfold(a), unfold(b)
}

// Symmetric returns an order-independent id for two non-negative indices,
// so Symmetric(a, b) == Symmetric(b, a).
func Symmetric(a, b uint32) uint64 {
	if a < b {
		a, b = b, a
	}
	return elegant(uint64(a), uint64(b))
}

// UnpairSymmetric inverts Symmetric, returning the larger index first.
func UnpairSymmetric(z uint64) (hi, lo uint32) {
	a, b := unelegant(z)
	if a < b {
		a, b = b, a
	}
	return uint32(a), uint32(b)
}

func clampCoord(x int) int {
	return max(-MaxCoord, min(MaxCoord, x))
}

func fold(x int) uint64 {
	x = clampCoord(x)
	if x >= 0 {
		return uint64(x) * 2
	}
	return uint64(-x)*2 - 1
}

func unfold(z uint64) int {
	if z%2 == 0 {
		return int(z / 2)
	}
	return -int((z + 1) / 2)
}

func elegant(a, b uint64) uint64 {
	if a >= b {
		return a*a + a + b
	}
	return b*b + a
}

func unelegant(z uint64) (a, b uint64) {
	s := isqrt(z)
	r := z - s*s
	if r < s {
		return r, s
	}
	return s, r - s
}

// isqrt returns floor(sqrt(z)). The float estimate can round up to 2^32
// near the top of the range, where s*s would wrap.
func isqrt(z uint64) uint64 {
	s := min(uint64(math.Sqrt(float64(z))), math.MaxUint32)
	for s*s > z {
		s--
	}
	for s < math.MaxUint32 && (s+1)*(s+1) <= z {
		s++
	}
	return s
}
