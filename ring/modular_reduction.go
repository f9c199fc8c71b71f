package ring

import (
	"math/big"
	"math/bits"
)

//============================
//=== MONTGOMERY REDUCTION ===
//============================

// MForm returns a*2^64 mod q.
func MForm(a, q uint64, brc [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, brc[1])
	r = -(a*brc[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// IMForm returns a*(1/2^64) mod q.
func IMForm(a, q, mrc uint64) (r uint64) {
	r, _ = bits.Mul64(a*mrc, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// GenMRedConstant computes the constant mrc = (q^-1) mod 2^64 required for MRed.
// q must be odd.
func GenMRedConstant(q uint64) (mrc uint64) {
	var x uint64
	mrc = 1
	x = q
	for i := 0; i < 63; i++ {
		mrc *= x
		x *= x
	}
	return
}

// MRed computes x * y * (1/2^64) mod q.
// Requires x * y < q * 2^64.
func MRed(x, y, q, mrc uint64) (r uint64) {
	mhi, mlo := bits.Mul64(x, y)
	hhi, _ := bits.Mul64(mlo*mrc, q)
	r = mhi - hhi + q
	if r >= q {
		r -= q
	}
	return
}

//==========================
//=== BARRETT REDUCTION  ===
//==========================

// GenBRedConstant computes the constant for the BRed algorithm.
// Returns ((2^128)/q)/(2^64) and (2^128)/q mod 2^64.
func GenBRedConstant(q uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	mlo := bigR.Uint64()
	mhi := bigR.Rsh(bigR, 64).Uint64()

	return [2]uint64{mhi, mlo}
}

// BRedAdd computes a mod q.
func BRedAdd(a, q uint64, brc [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, brc[0])
	r = a - mhi*q
	if r >= q {
		r -= q
	}
	return
}

// BRed computes x*y mod q.
// Requires x, y < q.
func BRed(x, y, q uint64, brc [2]uint64) (r uint64) {

	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	// (alo*ulo)>>64

	lhi, _ = bits.Mul64(alo, brc[1])

	// ((ahi*ulo + alo*uhi) + (alo*ulo))>>64

	mhi, mlo = bits.Mul64(alo, brc[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, brc[1])

	_, carry = bits.Add64(mlo, s0, 0)

	lhi = mhi + carry

	// (ahi*uhi) + (((ahi*ulo + alo*uhi) + (alo*ulo))>>64)

	s0 = ahi*brc[0] + s1 + lhi

	r = alo - s0*q

	if r >= q {
		r -= q
	}

	return
}

//===============================
//==== CONDITIONAL REDUCTION ====
//===============================

// CRed returns a mod q, where
// a is required to be in the range [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// Guard returns a mod twoQ, where a is required to be in
// the range [0, 2*twoQ-1]. The subtraction is branch-free.
func Guard(a, twoQ uint64) uint64 {
	d, borrow := bits.Sub64(a, twoQ, 0)
	return d + (twoQ & -borrow)
}
