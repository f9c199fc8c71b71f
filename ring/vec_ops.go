package ring

import (
	"unsafe"
)

// MulCoeffsBarrettVec evaluates p3 = p1 * p2 mod modulus, for p1, p2 in [0, modulus-1].
func MulCoeffsBarrettVec(p1, p2, p3 []uint64, modulus uint64, brc [2]uint64) {

	N := len(p1) &^ 7

	for j := 0; j < N; j = j + 8 {

		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p1) */
		x := (*[8]uint64)(unsafe.Pointer(&p1[j]))
		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p2) */
		y := (*[8]uint64)(unsafe.Pointer(&p2[j]))
		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p3) */
		z := (*[8]uint64)(unsafe.Pointer(&p3[j]))

		z[0] = BRed(x[0], y[0], modulus, brc)
		z[1] = BRed(x[1], y[1], modulus, brc)
		z[2] = BRed(x[2], y[2], modulus, brc)
		z[3] = BRed(x[3], y[3], modulus, brc)
		z[4] = BRed(x[4], y[4], modulus, brc)
		z[5] = BRed(x[5], y[5], modulus, brc)
		z[6] = BRed(x[6], y[6], modulus, brc)
		z[7] = BRed(x[7], y[7], modulus, brc)
	}

	for j := N; j < len(p1); j++ {
		p3[j] = BRed(p1[j], p2[j], modulus, brc)
	}
}

// ReduceVec evaluates p2 = p1 mod modulus, for any p1.
func ReduceVec(p1, p2 []uint64, modulus uint64, brc [2]uint64) {
	for j := range p1 {
		p2[j] = BRedAdd(p1[j], modulus, brc)
	}
}

// NegacyclicConvolution evaluates p3 = p1 * p2 in Z_modulus[X]/(X^N+1) with
// the schoolbook algorithm, for p1, p2 in [0, modulus-1] of length N.
// It runs in O(N^2) and serves as a reference for the fast transforms.
// p3 must not alias p1 or p2.
func NegacyclicConvolution(p1, p2, p3 []uint64, modulus uint64) {

	brc := GenBRedConstant(modulus)

	N := len(p1)

	for k := range p3[:N] {
		p3[k] = 0
	}

	for i := 0; i < N; i++ {

		if p1[i] == 0 {
			continue
		}

		for j := 0; j < N; j++ {

			prod := BRed(p1[i], p2[j], modulus, brc)

			// X^{i+j} = -X^{i+j-N} for i+j >= N
			if k := i + j; k < N {
				p3[k] = CRed(p3[k]+prod, modulus)
			} else {
				p3[k-N] = CRed(p3[k-N]+modulus-prod, modulus)
			}
		}
	}
}
