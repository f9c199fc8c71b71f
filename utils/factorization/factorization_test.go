package factorization_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dwt/utils/factorization"
)

const (
	prime uint64 = 0x1fffffffffe00001
)

func TestIsPrime(t *testing.T) {
	// 2^64 - 59 is prime
	require.True(t, factorization.IsPrime(new(big.Int).SetUint64(0xffffffffffffffc5)))
	// 2^64 + 13 is prime
	bigPrime, _ := new(big.Int).SetString("18446744073709551629", 10)
	require.True(t, factorization.IsPrime(bigPrime))
	// 2^64 - 1 is not prime
	require.False(t, factorization.IsPrime(new(big.Int).SetUint64(0xffffffffffffffff)))
	require.True(t, factorization.IsPrime(big.NewInt(17)))
	require.False(t, factorization.IsPrime(big.NewInt(1)))
}

func TestGetFactors(t *testing.T) {

	t.Run("GetFactors", func(t *testing.T) {
		m := new(big.Int).SetUint64(prime - 1)
		factors := factorization.GetFactors(m)
		require.True(t, checkFactorization(new(big.Int).Set(m), factors))
		for i := range factors {
			require.True(t, factorization.IsPrime(factors[i]))
			if i > 0 {
				require.Equal(t, -1, factors[i-1].Cmp(factors[i]))
			}
		}
	})

	t.Run("SmallPowers", func(t *testing.T) {
		// 16 = 2^4
		factors := factorization.GetFactors(big.NewInt(16))
		require.Len(t, factors, 1)
		require.Equal(t, int64(2), factors[0].Int64())

		// 2^2 * 3 * 101^2
		factors = factorization.GetFactors(big.NewInt(4 * 3 * 101 * 101))
		require.Len(t, factors, 3)
		require.Equal(t, []int64{2, 3, 101}, []int64{factors[0].Int64(), factors[1].Int64(), factors[2].Int64()})
	})

	t.Run("PollardRho", func(t *testing.T) {
		m := new(big.Int).SetUint64(prime - 1)
		d := factorization.GetFactorPollardRho(m)
		require.True(t, m.Mod(m, d).Sign() == 0)

		// 1000003 * 1000033
		m = new(big.Int).SetUint64(1000003 * 1000033)
		d = factorization.GetFactorPollardRho(m)
		require.True(t, d.Uint64() == 1000003 || d.Uint64() == 1000033)
	})
}

func checkFactorization(p *big.Int, factors []*big.Int) bool {
	zero := new(big.Int)
	for _, factor := range factors {
		for new(big.Int).Mod(p, factor).Cmp(zero) == 0 {
			p.Quo(p, factor)
		}
	}

	return p.Cmp(new(big.Int).SetUint64(1)) == 0
}
