// Package derive holds the clock and bit-width arithmetic shared by the
// module evaluators.
package derive

import (
	"fmt"
	"math"
	"math/bits"
)

// ClocksPerBit is floor(clock_hz / baud) for a clock given in MHz.
func ClocksPerBit(clockMHz, baud float64) (int64, error) {
	if baud <= 0 {
		return 0, fmt.Errorf("baud rate must be positive, got %v", baud)
	}
	return int64(math.Floor(clockMHz * 1e6 / baud)), nil
}

// CeilLog2 is ceil(log2(x)) for a positive x.
func CeilLog2(x float64) (int64, error) {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("log2 of %v is undefined", x)
	}
	return int64(math.Ceil(math.Log2(x))), nil
}

// BitsFor is ceil(log2(n)) computed exactly on integers: the number of bits
// needed to index n distinct values.
func BitsFor(n int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("log2 of %d is undefined", n)
	}
	return int64(bits.Len64(uint64(n - 1))), nil
}

// HalvingDivisor counts how many times clock must be halved (rounding up)
// before it no longer exceeds target.
func HalvingDivisor(clock, target float64) (int64, error) {
	clock = math.Ceil(clock)
	if clock > target && target < 1 {
		return 0, fmt.Errorf("target frequency %v cannot be reached by halving %v", target, clock)
	}
	var divisor int64
	for target < clock {
		divisor++
		clock = math.Ceil(clock / 2)
	}
	return divisor, nil
}

// CeilDiv is ceil(a / b) for positive integers.
func CeilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
