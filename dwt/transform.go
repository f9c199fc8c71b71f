package dwt

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/dwt/ring"
	"github.com/tuneinsight/dwt/utils"
	"github.com/tuneinsight/dwt/utils/concurrency"
)

// Transform computes in place the forward negacyclic transform of values,
// of length N = 2^logN, with the Cooley-Tukey gap-halving schedule.
//
// The input is in natural order with coefficients in [0, 4q-1]; the output
// is in bit-reversed order with coefficients in [0, q-1]. With
// roots[j] = psi^{bitrev(j, logN)} for a primitive 2N-th root of unity psi
// (see [ring.RootTable]), values[p] ends up holding the evaluation of the
// input polynomial at psi^{2*bitrev(p, logN)+1}.
//
// roots[0] is never read and len(roots) must be at least N: index 0 is reserved,
// so the N-1 roots addressed by the stages need a table of length N. If scalar
// is not nil, every output is multiplied by *scalar during the last stage.
//
// Stages are executed by d, one call to Dispatch per stage. The arguments are
// checked before any dispatch. If d fails, the error is returned as a
// [*StageError] and the content of values is unspecified.
func Transform[R any](d concurrency.Dispatcher, arith ring.Arithmetic[R], values []uint64, logN int, roots []R, scalar *R) (err error) {

	if err = checkArguments(d, arith, values, logN, len(roots)); err != nil {
		return fmt.Errorf("cannot Transform: %w", err)
	}

	N := 1 << logN

	gap, m, roundsOffset := N, 1, 1

	for m < N>>1 {

		gap >>= 1

		s := &stage[R]{
			Stage:  Stage{Variant: mainVariant(gap), Gap: gap, Groups: m, RoundsOffset: roundsOffset},
			arith:  arith,
			values: values,
			roots:  roots,
		}

		if err = dispatch(d, s.Stage, s.forward); err != nil {
			return
		}

		roundsOffset += m
		m <<= 1
	}

	s := &stage[R]{
		Stage:  Stage{Variant: Last, Gap: 1, Groups: m, RoundsOffset: roundsOffset},
		arith:  arith,
		values: values,
		roots:  roots,
	}

	if scalar != nil {
		s.Variant = LastScalar
		s.scalar = *scalar
	}

	return dispatch(d, s.Stage, s.forward)
}

// InverseTransform computes in place the inverse negacyclic transform of values,
// of length N = 2^logN, with the Gentleman-Sande gap-doubling schedule.
//
// The input is in bit-reversed order with coefficients in [0, 4q-1]; the output
// is in natural order with coefficients in [0, q-1]. With
// roots[s] = psi^{-(bitrev(s-1, logN)+1)} for s > 0 and scalar = N^{-1} mod q,
// it inverts [Transform] (see [ring.RootTable]).
//
// roots[0] is never read and len(roots) must be at least N. If scalar is nil
// the output is N times the inverse transform.
//
// Failure semantics are the ones of [Transform].
func InverseTransform[R any](d concurrency.Dispatcher, arith ring.Arithmetic[R], values []uint64, logN int, roots []R, scalar *R) (err error) {

	if err = checkArguments(d, arith, values, logN, len(roots)); err != nil {
		return fmt.Errorf("cannot InverseTransform: %w", err)
	}

	N := 1 << logN

	gap, m, roundsOffset := 1, N>>1, 1

	for m > 1 {

		s := &stage[R]{
			Stage:  Stage{Inverse: true, Variant: mainVariant(gap), Gap: gap, Groups: m, RoundsOffset: roundsOffset},
			arith:  arith,
			values: values,
			roots:  roots,
		}

		if err = dispatch(d, s.Stage, s.backward); err != nil {
			return
		}

		roundsOffset += m
		m >>= 1
		gap <<= 1
	}

	s := &stage[R]{
		Stage:  Stage{Inverse: true, Variant: Last, Gap: gap, Groups: 1, RoundsOffset: roundsOffset},
		arith:  arith,
		values: values,
		roots:  roots,
	}

	if scalar != nil {
		s.Variant = LastScalar
		s.scalar = *scalar
	}

	return dispatch(d, s.Stage, s.backward)
}

func mainVariant(gap int) Variant {
	if gap < Unroll {
		return Narrow
	}
	return Wide
}

// dispatch runs the kernel over the work items of the stage and waits for all of them.
func dispatch(d concurrency.Dispatcher, s Stage, kernel concurrency.Kernel) (err error) {
	if err = d.Dispatch(s.WorkCount(), kernel); err != nil {
		return &StageError{Stage: s, Err: err}
	}
	return
}

func checkArguments[R any](d concurrency.Dispatcher, arith ring.Arithmetic[R], values []uint64, logN, rootsLen int) (err error) {

	if d == nil {
		return fmt.Errorf("%w: dispatcher", ErrNilArgument)
	}

	if arith == nil {
		return fmt.Errorf("%w: arithmetic", ErrNilArgument)
	}

	if logN < 1 || logN > MaxLogN {
		return fmt.Errorf("%w: %d must be between 1 and %d", ErrInvalidLogN, logN, MaxLogN)
	}

	N := 1 << logN

	if len(values) != N {
		if !utils.IsPow2(len(values)) {
			return fmt.Errorf("%w: len(values)=%d is not a power of two", ErrBufferLength, len(values))
		}
		return fmt.Errorf("%w: len(values)=2^%d != 2^%d", ErrBufferLength, utils.Log2(len(values)), logN)
	}

	// The last forward stage reads roots[N/2 + N/2 - 1].
	if rootsLen < N {
		return fmt.Errorf("%w: len(roots)=%d < 2^%d", ErrRootTable, rootsLen, logN)
	}

	if q := arith.Modulus(); q < 2 || bits.Len64(q) > ring.MaxModulusBitLength {
		return fmt.Errorf("%w: %d must be greater than 1 and at most %d bits", ErrModulus, q, ring.MaxModulusBitLength)
	}

	return
}
