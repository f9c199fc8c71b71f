// Package dwt implements a parallel in-place discrete weighted transform (DWT)
// over Z_q[X]/(X^N+1), the negacyclic number theoretic transform used to
// multiply polynomials in O(N log N).
//
// The transforms are decomposed into stages of independent butterflies.
// Each stage is handed to a [concurrency.Dispatcher], which runs its work
// items in any order and returns once all of them completed. The only state
// carried from one stage to the next is the buffer itself.
//
// The modular arithmetic is abstracted by [ring.Arithmetic], so that the same
// kernels run with roots in Montgomery form, in canonical form (Barrett) or
// with a precomputed quotient (Shoup).
package dwt

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/dwt/ring"
)

// Unroll is the number of consecutive butterflies computed by one work
// item of a stage whose gap is at least Unroll.
const Unroll = 4

// MaxLogN is the log2 of the largest supported transform size: 32 on
// 64-bit platforms and 30 on 32-bit ones, so that 2^MaxLogN fits an int.
const MaxLogN = ring.MaxLogN

var (
	// ErrInvalidLogN is returned when logN is not in [1, MaxLogN].
	ErrInvalidLogN = errors.New("invalid logN")
	// ErrBufferLength is returned when the buffer length is not 2^logN.
	ErrBufferLength = errors.New("invalid buffer length")
	// ErrRootTable is returned when the root table is too short.
	ErrRootTable = errors.New("invalid root table")
	// ErrModulus is returned when the modulus of the arithmetic is out of range.
	ErrModulus = errors.New("invalid modulus")
	// ErrNilArgument is returned when the dispatcher or the arithmetic is nil.
	ErrNilArgument = errors.New("nil argument")
)

// StageError is returned when the dispatcher fails to run a stage.
// The content of the buffer is then unspecified.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
