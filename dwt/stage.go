package dwt

import (
	"fmt"

	"github.com/tuneinsight/dwt/ring"
)

// Variant tags the kernel a [Stage] runs.
type Variant int

const (
	// Narrow stages (gap < Unroll) run one butterfly per work item.
	Narrow Variant = iota
	// Wide stages (gap >= Unroll) run Unroll consecutive butterflies per work item.
	Wide
	// Last stages fully reduce their outputs.
	Last
	// LastScalar stages fully reduce their outputs and multiply them by a scalar.
	LastScalar
)

func (v Variant) String() string {
	switch v {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	case Last:
		return "last"
	case LastScalar:
		return "last+scalar"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Stage describes one stage of a transform: Groups butterfly groups of
// Gap butterflies each, the i-th group using the root at RoundsOffset+i.
type Stage struct {
	Inverse      bool
	Variant      Variant
	Gap          int
	Groups       int
	RoundsOffset int
}

// Unroll returns the number of butterflies per work item.
func (s Stage) Unroll() int {
	if s.Gap < Unroll {
		return 1
	}
	return Unroll
}

// WorkCount returns the number of work items of the stage.
func (s Stage) WorkCount() int {
	return s.Groups * s.Gap / s.Unroll()
}

func (s Stage) String() string {
	direction := "forward"
	if s.Inverse {
		direction = "inverse"
	}
	return fmt.Sprintf("%s stage (variant=%s, gap=%d, groups=%d, roundsOffset=%d)", direction, s.Variant, s.Gap, s.Groups, s.RoundsOffset)
}

// stage binds a [Stage] to its operands. Work item idx of a stage maps to
// the group i = idx / (Gap/U) and to the U butterflies starting at
// i*2*Gap + (idx % (Gap/U))*U, where U is the unroll factor.
type stage[R any] struct {
	Stage
	arith  ring.Arithmetic[R]
	values []uint64
	roots  []R
	scalar R
}

// forward runs the Cooley-Tukey butterflies of the work item idx.
func (s *stage[R]) forward(idx int) {

	a := s.arith
	values := s.values
	gap := s.Gap
	unroll := s.Unroll()

	per := gap / unroll
	i := idx / per
	offset := i*2*gap + (idx%per)*unroll

	r := s.roots[s.RoundsOffset+i]

	switch s.Variant {
	case Narrow, Wide:
		for k := offset; k < offset+unroll; k++ {
			values[k], values[k+gap] = ctButterfly(a, a.Guard(values[k]), values[k+gap], r)
		}
	case Last:
		for k := offset; k < offset+unroll; k++ {
			x, y := ctButterfly(a, a.Guard(values[k]), values[k+gap], r)
			values[k], values[k+gap] = a.Reduce(x), a.Reduce(y)
		}
	case LastScalar:
		rs := a.MulRootScalar(r, s.scalar)
		for k := offset; k < offset+unroll; k++ {
			x, y := ctButterfly(a, a.MulScalar(a.Guard(values[k]), s.scalar), values[k+gap], rs)
			values[k], values[k+gap] = a.Reduce(x), a.Reduce(y)
		}
	}
}

// backward runs the Gentleman-Sande butterflies of the work item idx.
func (s *stage[R]) backward(idx int) {

	a := s.arith
	values := s.values
	gap := s.Gap
	unroll := s.Unroll()

	per := gap / unroll
	i := idx / per
	offset := i*2*gap + (idx%per)*unroll

	r := s.roots[s.RoundsOffset+i]

	switch s.Variant {
	case Narrow, Wide:
		for k := offset; k < offset+unroll; k++ {
			values[k], values[k+gap] = gsButterfly(a, values[k], values[k+gap], r)
		}
	case Last:
		for k := offset; k < offset+unroll; k++ {
			x, y := gsButterfly(a, values[k], values[k+gap], r)
			values[k], values[k+gap] = a.Reduce(x), y
		}
	case LastScalar:
		rs := a.MulRootScalar(r, s.scalar)
		for k := offset; k < offset+unroll; k++ {
			x, y := gsButterfly(a, values[k], values[k+gap], rs)
			values[k], values[k+gap] = a.MulScalar(x, s.scalar), y
		}
	}
}

// ctButterfly returns (u + y*r, u - y*r) in [0, 2q-1] for u in [0, 2q-1] and y in [0, 4q-1].
func ctButterfly[R any](a ring.Arithmetic[R], u, y uint64, r R) (uint64, uint64) {
	v := a.MulRoot(y, r)
	return a.Add(u, v), a.Sub(u, v)
}

// gsButterfly returns (x + y, (x - y)*r), the first in [0, 2q-1] and the second
// in [0, q-1], for x, y in [0, 4q-1].
func gsButterfly[R any](a ring.Arithmetic[R], x, y uint64, r R) (uint64, uint64) {
	u, v := a.Guard(x), a.Guard(y)
	return a.Add(u, v), a.MulRoot(a.Sub(u, v), r)
}
