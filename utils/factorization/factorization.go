// Package factorization implements primality testing and the factorization
// of the moduli minus one needed to find primitive roots.
package factorization

import (
	"math/big"
	"sort"
)

var smallPrimes = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(m *big.Int) bool {
	return m.ProbablyPrime(0)
}

// GetFactors returns the sorted list of the unique prime factors of m.
// m must be strictly positive.
func GetFactors(m *big.Int) (factors []*big.Int) {

	n := new(big.Int).Set(m)

	one := big.NewInt(1)
	tmp := new(big.Int)

	add := func(p *big.Int) {
		for _, f := range factors {
			if f.Cmp(p) == 0 {
				return
			}
		}
		factors = append(factors, new(big.Int).Set(p))
	}

	// Trial division by the small primes
	for _, p := range smallPrimes {

		bp := new(big.Int).SetUint64(p)

		if tmp.Mod(n, bp).Sign() == 0 {

			add(bp)

			for tmp.Mod(n, bp).Sign() == 0 {
				n.Quo(n, bp)
			}
		}
	}

	// Splits the remaining cofactor with Pollard's rho
	stack := []*big.Int{}

	if n.Cmp(one) > 0 {
		stack = append(stack, n)
	}

	for len(stack) > 0 {

		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if IsPrime(x) {
			add(x)
			continue
		}

		d := GetFactorPollardRho(x)

		stack = append(stack, d, new(big.Int).Quo(x, d))
	}

	sort.Slice(factors, func(i, j int) bool {
		return factors[i].Cmp(factors[j]) < 0
	})

	return
}

// GetFactorPollardRho returns a non-trivial factor of m, which must be
// composite, using Pollard's rho with f(x) = x^2 + c mod m.
// The constant c is incremented whenever a cycle does not split m.
func GetFactorPollardRho(m *big.Int) (d *big.Int) {

	if m.Bit(0) == 0 {
		return big.NewInt(2)
	}

	one := big.NewInt(1)

	x, y := new(big.Int), new(big.Int)
	c := new(big.Int)
	diff := new(big.Int)
	d = new(big.Int)

	f := func(z *big.Int) {
		z.Mul(z, z)
		z.Add(z, c)
		z.Mod(z, m)
	}

	for c.SetUint64(1); ; c.Add(c, one) {

		x.SetUint64(2)
		y.SetUint64(2)
		d.SetUint64(1)

		for d.Cmp(one) == 0 {
			f(x)
			f(y)
			f(y)
			diff.Sub(x, y)
			diff.Abs(diff)
			d.GCD(nil, nil, diff, m)
		}

		if d.Cmp(m) != 0 {
			return
		}
	}
}
