// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64(index uint64, bitLen int) uint64 {
	return bits.Reverse64(index) >> (64 - bitLen)
}

// IsPow2 returns true if x is a power of two.
func IsPow2[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}

// Log2 returns the floor of the base-2 logarithm of x, or -1 for x <= 0.
func Log2[T constraints.Integer](x T) (log int) {
	if x <= 0 {
		return -1
	}
	return bits.Len64(uint64(x)) - 1
}

// Min returns the minimum of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// RoundUp returns the smallest multiple of m that is not smaller than x.
// m must be strictly positive.
func RoundUp[T constraints.Integer](x, m T) T {
	if r := x % m; r != 0 {
		return x + m - r
	}
	return x
}
