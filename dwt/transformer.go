package dwt

import (
	"fmt"

	"github.com/tuneinsight/dwt/ring"
	"github.com/tuneinsight/dwt/utils/concurrency"
	"github.com/tuneinsight/dwt/utils/structs"
)

// Engine is the type-erased interface of [Transformer], as returned by [NewEngine].
type Engine interface {
	// Parameters returns the parameters of the engine.
	Parameters() Parameters

	// Forward computes the forward transform of values in place.
	Forward(values []uint64) (err error)

	// ForwardScaled computes scalar times the forward transform of values in place.
	ForwardScaled(values []uint64, scalar uint64) (err error)

	// Backward computes the inverse transform of values in place.
	Backward(values []uint64) (err error)

	// BackwardUnscaled computes N times the inverse transform of values in place.
	BackwardUnscaled(values []uint64) (err error)

	// MulNegacyclic evaluates out = a * b mod (X^N+1, Q).
	MulNegacyclic(a, b, out []uint64) (err error)

	// ForwardBatch computes the forward transform of each buffer concurrently.
	ForwardBatch(values [][]uint64) (err error)

	// BackwardBatch computes the inverse transform of each buffer concurrently.
	BackwardBatch(values [][]uint64) (err error)

	// Digest returns the fingerprint of the root table.
	Digest() []byte

	// WithDispatcher returns a shallow copy of the engine running its stages on d.
	WithDispatcher(d concurrency.Dispatcher) Engine
}

// Transformer binds a set of [Parameters] to the corresponding root tables
// in the representation R of a [ring.Arithmetic] and to a [concurrency.Dispatcher].
//
// A Transformer is read-only after its creation and can be used concurrently
// on distinct buffers.
type Transformer[R any] struct {
	params     Parameters
	arith      ring.Arithmetic[R]
	dispatcher concurrency.Dispatcher
	forward    []R
	backward   []R
	nInv       R
	brc        [2]uint64
	buffers    *structs.SyncPool[*[]uint64]
}

// NewTransformer creates a new [Transformer] from the parameters, an arithmetic over
// the modulus of the parameters, and a dispatcher. If d is nil, a [concurrency.WorkerPool]
// with params.Workers() workers is used, or [concurrency.Sequential] for a single worker.
func NewTransformer[R any](params Parameters, arith ring.Arithmetic[R], d concurrency.Dispatcher) (*Transformer[R], error) {

	table := params.RootTable()

	if table == nil {
		return nil, fmt.Errorf("cannot NewTransformer: %w: uninitialized parameters", ErrNilArgument)
	}

	if arith == nil {
		return nil, fmt.Errorf("cannot NewTransformer: %w: arithmetic", ErrNilArgument)
	}

	if arith.Modulus() != params.Q() {
		return nil, fmt.Errorf("cannot NewTransformer: %w: arithmetic modulus %d != %d", ErrModulus, arith.Modulus(), params.Q())
	}

	if d == nil {
		d = DefaultDispatcher(params.Workers())
	}

	return &Transformer[R]{
		params:     params,
		arith:      arith,
		dispatcher: d,
		forward:    ring.Roots(arith, table.Forward),
		backward:   ring.Roots(arith, table.Backward),
		nInv:       arith.Root(table.NInv),
		brc:        ring.GenBRedConstant(params.Q()),
		buffers:    structs.NewUint64Pool(params.N()),
	}, nil
}

// DefaultDispatcher returns [concurrency.Sequential] if workers is 1 and a
// [concurrency.WorkerPool] with the given number of workers otherwise.
func DefaultDispatcher(workers int) concurrency.Dispatcher {
	if workers == 1 {
		return concurrency.Sequential{}
	}
	return concurrency.NewWorkerPool(workers)
}

// NewEngine creates a new [Engine] whose arithmetic is selected by params.Reduction().
// See [NewTransformer] for the choice of the dispatcher when d is nil.
func NewEngine(params Parameters, d concurrency.Dispatcher) (Engine, error) {

	q := params.Q()

	switch params.Reduction() {
	case Montgomery:
		arith, err := ring.NewMontgomeryArithmetic(q)
		if err != nil {
			return nil, fmt.Errorf("cannot NewEngine: %w: %w", ErrModulus, err)
		}
		return newEngine[uint64](params, arith, d)
	case Barrett:
		arith, err := ring.NewBarrettArithmetic(q)
		if err != nil {
			return nil, fmt.Errorf("cannot NewEngine: %w: %w", ErrModulus, err)
		}
		return newEngine[uint64](params, arith, d)
	case Shoup:
		arith, err := ring.NewShoupArithmetic(q)
		if err != nil {
			return nil, fmt.Errorf("cannot NewEngine: %w: %w", ErrModulus, err)
		}
		return newEngine[ring.ShoupOperand](params, arith, d)
	default:
		return nil, fmt.Errorf("cannot NewEngine: invalid reduction %q", params.Reduction())
	}
}

func newEngine[R any](params Parameters, arith ring.Arithmetic[R], d concurrency.Dispatcher) (Engine, error) {
	t, err := NewTransformer(params, arith, d)
	if err != nil {
		return nil, fmt.Errorf("cannot NewEngine: %w", err)
	}
	return t, nil
}

// Parameters returns the parameters of the transformer.
func (t Transformer[R]) Parameters() Parameters {
	return t.params
}

// Arithmetic returns the arithmetic of the transformer.
func (t Transformer[R]) Arithmetic() ring.Arithmetic[R] {
	return t.arith
}

// Dispatcher returns the dispatcher of the transformer.
func (t Transformer[R]) Dispatcher() concurrency.Dispatcher {
	return t.dispatcher
}

// ForwardRoots returns the roots read by [Transform]. They must not be modified.
func (t Transformer[R]) ForwardRoots() []R {
	return t.forward
}

// BackwardRoots returns the roots read by [InverseTransform]. They must not be modified.
func (t Transformer[R]) BackwardRoots() []R {
	return t.backward
}

// Digest returns the BLAKE3 fingerprint of the root table, see [ring.RootTable.Digest].
func (t Transformer[R]) Digest() []byte {
	return t.params.RootTable().Digest()
}

// WithDispatcher returns a shallow copy of the transformer running its stages on d.
// The root tables are shared with the receiver.
func (t Transformer[R]) WithDispatcher(d concurrency.Dispatcher) Engine {
	t.dispatcher = d
	return &t
}

// Forward computes the forward transform of values in place.
// The output is in bit-reversed order with coefficients in [0, Q-1].
func (t Transformer[R]) Forward(values []uint64) (err error) {
	return Transform(t.dispatcher, t.arith, values, t.params.LogN(), t.forward, nil)
}

// ForwardScaled computes scalar times the forward transform of values in place.
// The scalar must be in [0, Q-1] and is folded in the last stage.
func (t Transformer[R]) ForwardScaled(values []uint64, scalar uint64) (err error) {
	s := t.arith.Root(scalar)
	return Transform(t.dispatcher, t.arith, values, t.params.LogN(), t.forward, &s)
}

// Backward computes the inverse transform of values in place.
// The output is in natural order with coefficients in [0, Q-1].
func (t Transformer[R]) Backward(values []uint64) (err error) {
	nInv := t.nInv
	return InverseTransform(t.dispatcher, t.arith, values, t.params.LogN(), t.backward, &nInv)
}

// BackwardUnscaled computes N times the inverse transform of values in place.
func (t Transformer[R]) BackwardUnscaled(values []uint64) (err error) {
	return InverseTransform(t.dispatcher, t.arith, values, t.params.LogN(), t.backward, nil)
}

// MulNegacyclic evaluates out = a * b mod (X^N+1, Q) for a and b in natural order.
// The coefficients of the inputs can be any uint64 and are reduced modulo Q first.
// The inputs are not modified and out may alias a or b.
func (t Transformer[R]) MulNegacyclic(a, b, out []uint64) (err error) {

	N := t.params.N()

	if len(a) != N || len(b) != N || len(out) != N {
		return fmt.Errorf("cannot MulNegacyclic: %w: len(a)=%d, len(b)=%d, len(out)=%d != %d", ErrBufferLength, len(a), len(b), len(out), N)
	}

	buffA, buffB := t.buffers.Get(), t.buffers.Get()
	defer t.buffers.Put(buffA)
	defer t.buffers.Put(buffB)

	ring.ReduceVec(a, *buffA, t.params.Q(), t.brc)
	ring.ReduceVec(b, *buffB, t.params.Q(), t.brc)

	if err = t.Forward(*buffA); err != nil {
		return fmt.Errorf("cannot MulNegacyclic: %w", err)
	}

	if err = t.Forward(*buffB); err != nil {
		return fmt.Errorf("cannot MulNegacyclic: %w", err)
	}

	ring.MulCoeffsBarrettVec(*buffA, *buffB, out, t.params.Q(), t.brc)

	if err = t.Backward(out); err != nil {
		return fmt.Errorf("cannot MulNegacyclic: %w", err)
	}

	return
}

// ForwardBatch computes the forward transform of each buffer. The buffers
// are processed concurrently and must not alias each other.
//
// After the first failure the buffers not yet started are skipped. On error
// the content of all the buffers is unspecified.
func (t Transformer[R]) ForwardBatch(values [][]uint64) (err error) {
	return t.batch(values, t.Forward)
}

// BackwardBatch computes the inverse transform of each buffer. The buffers
// are processed concurrently and must not alias each other.
//
// On error the content of all the buffers is unspecified, as for [Transformer.ForwardBatch].
func (t Transformer[R]) BackwardBatch(values [][]uint64) (err error) {
	return t.batch(values, t.Backward)
}

func (t Transformer[R]) batch(values [][]uint64, f func([]uint64) error) (err error) {

	workers := t.params.Workers()
	if workers == 0 {
		workers = len(values)
	}

	rm := concurrency.NewResourceManager(make([]struct{}, workers))

	for i := range values {
		i := i
		rm.Run(func(_ struct{}) (err error) {
			if err = f(values[i]); err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			return
		})
	}

	if err = rm.Wait(); err != nil {
		return fmt.Errorf("cannot batch: %w", err)
	}

	return
}
