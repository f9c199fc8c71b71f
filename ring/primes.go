package ring

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dwt/utils/factorization"
)

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return factorization.IsPrime(new(big.Int).SetUint64(x))
}

// GenerateNTTPrimes generates n NthRoot NTT friendly primes given logQ = size of the primes.
// The primes are searched starting from 2^logQ + 1 and alternating between upward and downward.
// Returned primes are congruent to 1 mod NthRoot and at most 61 bits.
func GenerateNTTPrimes(logQ, NthRoot, n int) (primes []uint64, err error) {

	if logQ < 2 || logQ > MaxModulusBitLength {
		return nil, fmt.Errorf("cannot GenerateNTTPrimes: logQ=%d must be between 2 and %d", logQ, MaxModulusBitLength)
	}

	if NthRoot < 2 || NthRoot&(NthRoot-1) != 0 || uint64(NthRoot) > uint64(1)<<logQ {
		return nil, fmt.Errorf("cannot GenerateNTTPrimes: NthRoot=%d must be a power of two not larger than 2^%d", NthRoot, logQ)
	}

	var nextPrime, previousPrime uint64
	var checkForNextPrime, checkForPreviousPrime bool

	nextPrime = uint64(1)<<logQ + 1
	previousPrime = nextPrime

	checkForNextPrime = true
	checkForPreviousPrime = true

	if IsPrime(nextPrime) && nextPrime&uint64(NthRoot-1) == 1 && bits.Len64(nextPrime) <= MaxModulusBitLength {
		primes = append(primes, nextPrime)
		if len(primes) == n {
			return
		}
	}

	for {

		if !(checkForNextPrime || checkForPreviousPrime) {
			return primes, fmt.Errorf("cannot GenerateNTTPrimes: only %d primes of %d bits for NthRoot=%d", len(primes), logQ, NthRoot)
		}

		if checkForNextPrime {

			if nextPrime += uint64(NthRoot); bits.Len64(nextPrime) > MaxModulusBitLength || bits.Len64(nextPrime) > logQ+1 {

				checkForNextPrime = false

			} else if IsPrime(nextPrime) {

				primes = append(primes, nextPrime)

				if len(primes) == n {
					return
				}
			}
		}

		if checkForPreviousPrime {

			if previousPrime < uint64(NthRoot)+2 || bits.Len64(previousPrime-uint64(NthRoot)) < logQ {

				checkForPreviousPrime = false

			} else {

				previousPrime -= uint64(NthRoot)

				if IsPrime(previousPrime) {

					primes = append(primes, previousPrime)

					if len(primes) == n {
						return
					}
				}
			}
		}
	}
}

// PrimitiveRoot computes the smallest primitive root of the given prime q.
// The unique factors of q-1 can be given to speed up the search for the root.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {

	if factors != nil {
		if err := CheckFactors(q-1, factors); err != nil {
			return 0, factors, err
		}
	} else {

		factorsBig := factorization.GetFactors(new(big.Int).SetUint64(q - 1)) //Factor q-1, might be slow

		factors = make([]uint64, len(factorsBig))
		for i := range factors {
			factors[i] = factorsBig[i].Uint64()
		}
	}

	for g := uint64(2); g < q; g++ {
		if checkPrimitiveRoot(g, q, factors) {
			return g, factors, nil
		}
	}

	return 0, factors, fmt.Errorf("cannot PrimitiveRoot: no primitive root found for %d", q)
}

// CheckFactors checks that the given list of factors contains
// all the unique primes of m.
func CheckFactors(m uint64, factors []uint64) (err error) {

	for _, factor := range factors {

		if !IsPrime(factor) {
			return fmt.Errorf("composite factor")
		}

		for m%factor == 0 {
			m /= factor
		}
	}

	if m != 1 {
		return fmt.Errorf("incomplete factor list")
	}

	return
}

func checkPrimitiveRoot(g, q uint64, factors []uint64) bool {
	for _, factor := range factors {
		// if for any factor of q-1, g^(q-1)/factor = 1 mod q, g is not a primitive root
		if ModExp(g, (q-1)/factor, q) == 1 {
			return false
		}
	}
	return true
}
