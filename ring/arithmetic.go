// Package ring implements the modular arithmetic over Z_q consumed by the
// negacyclic transforms, along with the generation of NTT-friendly primes,
// roots of unity and root tables.
package ring

import (
	"fmt"
	"math/bits"
)

// MaxModulusBitLength is the maximum bit-length of a modulus supported
// by the lazy arithmetic: values in [0, 4q-1] must fit on 64 bits.
const MaxModulusBitLength = 61

// Arithmetic is the set of modular primitives consumed by the
// butterfly kernels. The type parameter R is the representation
// of the roots (and of the optional scalar).
//
// Values are uint64 in the guarded range [0, 2q-1] unless stated otherwise.
type Arithmetic[R any] interface {
	// Modulus returns q.
	Modulus() uint64

	// Guard maps [0, 4q-1] to [0, 2q-1].
	Guard(x uint64) uint64

	// Add returns u + v mod 2q for u, v in [0, 2q-1].
	Add(u, v uint64) uint64

	// Sub returns u - v mod 2q for u, v in [0, 2q-1].
	Sub(u, v uint64) uint64

	// MulRoot returns v * r mod q in [0, q-1] for v in [0, 4q-1].
	MulRoot(v uint64, r R) uint64

	// MulRootScalar returns the root r * s.
	MulRootScalar(r, s R) R

	// MulScalar returns u * s mod q in [0, q-1] for u in [0, 4q-1].
	MulScalar(u uint64, s R) uint64

	// Reduce maps [0, 4q-1] to [0, q-1].
	Reduce(x uint64) uint64

	// Root converts x in [0, q-1] to the root representation.
	Root(x uint64) R
}

// Roots converts a table of canonical values to the root representation of a.
func Roots[R any](a Arithmetic[R], table []uint64) (roots []R) {
	roots = make([]R, len(table))
	for i := range table {
		roots[i] = a.Root(table[i])
	}
	return
}

func checkArithmeticModulus(q uint64) (err error) {
	if q < 3 || q&1 == 0 {
		return fmt.Errorf("invalid modulus: %d must be an odd integer greater than 2", q)
	}
	if bits.Len64(q) > MaxModulusBitLength {
		return fmt.Errorf("invalid modulus: bit-length of %d is larger than %d", q, MaxModulusBitLength)
	}
	return
}

// lazyBase implements the primitives shared by all
// representations of the roots.
type lazyBase struct {
	q, twoQ uint64
}

func (a lazyBase) Modulus() uint64 {
	return a.q
}

func (a lazyBase) Guard(x uint64) uint64 {
	return Guard(x, a.twoQ)
}

func (a lazyBase) Add(u, v uint64) uint64 {
	return Guard(u+v, a.twoQ)
}

func (a lazyBase) Sub(u, v uint64) uint64 {
	return Guard(u+a.twoQ-v, a.twoQ)
}

func (a lazyBase) Reduce(x uint64) uint64 {
	return CRed(Guard(x, a.twoQ), a.q)
}

// MontgomeryArithmetic implements [Arithmetic] with roots
// stored in Montgomery form and reduced with MRed.
type MontgomeryArithmetic struct {
	lazyBase
	mrc uint64
	brc [2]uint64
}

// NewMontgomeryArithmetic returns a new [MontgomeryArithmetic] for the modulus q.
func NewMontgomeryArithmetic(q uint64) (*MontgomeryArithmetic, error) {
	if err := checkArithmeticModulus(q); err != nil {
		return nil, fmt.Errorf("cannot NewMontgomeryArithmetic: %w", err)
	}
	return &MontgomeryArithmetic{
		lazyBase: lazyBase{q: q, twoQ: q << 1},
		mrc:      GenMRedConstant(q),
		brc:      GenBRedConstant(q),
	}, nil
}

// MulRoot returns v * r mod q.
// v*r < 4q^2 < q*2^64 so that MRed is well defined.
func (a MontgomeryArithmetic) MulRoot(v, r uint64) uint64 {
	return MRed(v, r, a.q, a.mrc)
}

// MulRootScalar returns r * s in Montgomery form.
func (a MontgomeryArithmetic) MulRootScalar(r, s uint64) uint64 {
	return MRed(r, s, a.q, a.mrc)
}

// MulScalar returns u * s mod q.
func (a MontgomeryArithmetic) MulScalar(u, s uint64) uint64 {
	return MRed(u, s, a.q, a.mrc)
}

// Root returns x in Montgomery form.
func (a MontgomeryArithmetic) Root(x uint64) uint64 {
	return MForm(BRedAdd(x, a.q, a.brc), a.q, a.brc)
}

// BarrettArithmetic implements [Arithmetic] with roots
// stored in the canonical form and reduced with BRed.
type BarrettArithmetic struct {
	lazyBase
	brc [2]uint64
}

// NewBarrettArithmetic returns a new [BarrettArithmetic] for the modulus q.
func NewBarrettArithmetic(q uint64) (*BarrettArithmetic, error) {
	if err := checkArithmeticModulus(q); err != nil {
		return nil, fmt.Errorf("cannot NewBarrettArithmetic: %w", err)
	}
	return &BarrettArithmetic{
		lazyBase: lazyBase{q: q, twoQ: q << 1},
		brc:      GenBRedConstant(q),
	}, nil
}

// MulRoot returns v * r mod q.
func (a BarrettArithmetic) MulRoot(v, r uint64) uint64 {
	return BRed(a.Reduce(v), r, a.q, a.brc)
}

// MulRootScalar returns r * s mod q.
func (a BarrettArithmetic) MulRootScalar(r, s uint64) uint64 {
	return BRed(r, s, a.q, a.brc)
}

// MulScalar returns u * s mod q.
func (a BarrettArithmetic) MulScalar(u, s uint64) uint64 {
	return BRed(a.Reduce(u), s, a.q, a.brc)
}

// Root returns x mod q.
func (a BarrettArithmetic) Root(x uint64) uint64 {
	return BRedAdd(x, a.q, a.brc)
}

// ShoupOperand is a multiplicand w in [0, q-1] along
// with its precomputed quotient floor(w * 2^64 / q).
type ShoupOperand struct {
	Operand  uint64
	Quotient uint64
}

// NewShoupOperand returns the [ShoupOperand] of w mod q.
// w must be smaller than q.
func NewShoupOperand(w, q uint64) ShoupOperand {
	quo, _ := bits.Div64(w, 0, q)
	return ShoupOperand{Operand: w, Quotient: quo}
}

// MulShoupLazy returns x * w.Operand mod q in [0, 2q-1], for any x.
func MulShoupLazy(x uint64, w ShoupOperand, q uint64) uint64 {
	qhat, _ := bits.Mul64(x, w.Quotient)
	return x*w.Operand - qhat*q
}

// ShoupArithmetic implements [Arithmetic] with roots
// stored as [ShoupOperand].
type ShoupArithmetic struct {
	lazyBase
	brc [2]uint64
}

// NewShoupArithmetic returns a new [ShoupArithmetic] for the modulus q.
func NewShoupArithmetic(q uint64) (*ShoupArithmetic, error) {
	if err := checkArithmeticModulus(q); err != nil {
		return nil, fmt.Errorf("cannot NewShoupArithmetic: %w", err)
	}
	return &ShoupArithmetic{
		lazyBase: lazyBase{q: q, twoQ: q << 1},
		brc:      GenBRedConstant(q),
	}, nil
}

// MulRoot returns v * r mod q.
func (a ShoupArithmetic) MulRoot(v uint64, r ShoupOperand) uint64 {
	return CRed(MulShoupLazy(v, r, a.q), a.q)
}

// MulRootScalar returns the [ShoupOperand] of r * s mod q.
func (a ShoupArithmetic) MulRootScalar(r, s ShoupOperand) ShoupOperand {
	return NewShoupOperand(a.MulRoot(r.Operand, s), a.q)
}

// MulScalar returns u * s mod q.
func (a ShoupArithmetic) MulScalar(u uint64, s ShoupOperand) uint64 {
	return a.MulRoot(u, s)
}

// Root returns the [ShoupOperand] of x mod q.
func (a ShoupArithmetic) Root(x uint64) ShoupOperand {
	return NewShoupOperand(BRedAdd(x, a.q, a.brc), a.q)
}
