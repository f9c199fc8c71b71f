package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitReverse64(t *testing.T) {
	require.Equal(t, uint64(0), BitReverse64(0, 3))
	require.Equal(t, uint64(4), BitReverse64(1, 3))
	require.Equal(t, uint64(2), BitReverse64(2, 3))
	require.Equal(t, uint64(6), BitReverse64(3, 3))
	require.Equal(t, uint64(1), BitReverse64(1, 1))

	for logN := 1; logN < 10; logN++ {
		for i := uint64(0); i < 1<<logN; i++ {
			require.Equal(t, i, BitReverse64(BitReverse64(i, logN), logN))
		}
	}
}

func TestIsPow2(t *testing.T) {
	require.False(t, IsPow2(0))
	require.False(t, IsPow2(-4))
	require.False(t, IsPow2(12))
	require.True(t, IsPow2(1))
	require.True(t, IsPow2(uint64(1)<<60))
}

func TestLog2(t *testing.T) {
	require.Equal(t, -1, Log2(0))
	require.Equal(t, 0, Log2(1))
	require.Equal(t, 3, Log2(8))
	require.Equal(t, 3, Log2(15))
	require.Equal(t, 16, Log2(uint32(1<<16)))
}

func TestRoundUp(t *testing.T) {
	require.Equal(t, 0, RoundUp(0, 8))
	require.Equal(t, 8, RoundUp(1, 8))
	require.Equal(t, 8, RoundUp(8, 8))
	require.Equal(t, 24, RoundUp(17, 8))
}

func TestBitReverseInPlaceSlice(t *testing.T) {
	for logN := 1; logN < 8; logN++ {
		N := 1 << logN
		s := make([]uint64, N)
		for i := range s {
			s[i] = uint64(i)
		}
		BitReverseInPlaceSlice(s, N)
		for i := range s {
			require.Equal(t, BitReverse64(uint64(i), logN), s[i])
		}
	}
}

func TestEqualSlice(t *testing.T) {
	require.True(t, EqualSlice([]int{1, 2}, []int{1, 2}))
	require.False(t, EqualSlice([]int{1, 2}, []int{1}))
	require.False(t, EqualSlice([]int{1, 2}, []int{2, 1}))
}
