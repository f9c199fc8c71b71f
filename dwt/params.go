package dwt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/dwt/ring"
)

// Reduction selects the representation of the roots and the modular
// multiplication used by the butterflies.
type Reduction string

const (
	// Montgomery stores the roots in Montgomery form.
	Montgomery = Reduction("montgomery")
	// Barrett stores the roots in canonical form.
	Barrett = Reduction("barrett")
	// Shoup stores the roots along with their precomputed quotient.
	Shoup = Reduction("shoup")
)

// ParametersLiteral is a literal representation of the parameters of a transform.
// It has public fields and is used to express unchecked user-defined parameters.
// The [NewParametersFromLiteral] function is used to generate the actual checked
// parameters from the literal representation.
//
// Users must set LogN and either Q, a prime congruent to 1 mod 2^{LogN+1}, or
// LogQ, in which case the first such prime of LogQ bits is used.
//
// Optionally, users may specify
//   - Psi, the primitive 2^{LogN+1}-th root of unity of the transform (derived from the smallest primitive root of Q if unset)
//   - the Reduction (Montgomery if unset)
//   - the number of Workers of the default dispatcher (the number of logical CPUs if unset)
type ParametersLiteral struct {
	LogN      int
	Q         uint64    `json:",omitempty"`
	LogQ      int       `json:",omitempty"`
	Psi       uint64    `json:",omitempty"`
	Reduction Reduction `json:",omitempty"`
	Workers   int       `json:",omitempty"`
}

// Parameters represents a checked set of transform parameters.
// Its fields are private and immutable. See [ParametersLiteral] for
// user-specified parameters.
type Parameters struct {
	logN      int
	q         uint64
	reduction Reduction
	workers   int
	table     *ring.RootTable
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a [ParametersLiteral]
// specification. It returns the empty parameters [Parameters]{} and a non-nil error if
// the specified parameters are invalid.
//
// Generating a prime from LogQ or a root of unity requires factoring Q-1, which might be slow.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.LogN < 1 || pl.LogN > MaxLogN {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: %d must be between 1 and %d", ErrInvalidLogN, pl.LogN, MaxLogN)
	}

	reduction := pl.Reduction
	if reduction == "" {
		reduction = Montgomery
	}

	switch reduction = Reduction(strings.ToLower(string(reduction))); reduction {
	case Montgomery, Barrett, Shoup:
	default:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid reduction %q", pl.Reduction)
	}

	if pl.Workers < 0 {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid number of workers %d", pl.Workers)
	}

	q := pl.Q

	switch {
	case q != 0 && pl.LogQ != 0:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: Q and LogQ are mutually exclusive")
	case q == 0 && pl.LogQ == 0:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: Q or LogQ must be set", ErrModulus)
	case q == 0:
		var primes []uint64
		if primes, err = ring.GenerateNTTPrimes(pl.LogQ, 2<<pl.LogN, 1); err != nil {
			return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: %w", ErrModulus, err)
		}
		q = primes[0]
	}

	var table *ring.RootTable

	if pl.Psi != 0 {
		table, err = ring.NewRootTable(pl.LogN, q, pl.Psi)
	} else {
		table, err = ring.GenRootTable(pl.LogN, q)
	}

	if err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: %w", ErrModulus, err)
	}

	return Parameters{
		logN:      pl.LogN,
		q:         q,
		reduction: reduction,
		workers:   pl.Workers,
		table:     table,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
// Q and Psi are always set.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LogN:      p.logN,
		Q:         p.q,
		Psi:       p.Psi(),
		Reduction: p.reduction,
		Workers:   p.workers,
	}
}

// LogN returns the log2 of the transform size.
func (p Parameters) LogN() int {
	return p.logN
}

// N returns the transform size.
func (p Parameters) N() int {
	return 1 << p.logN
}

// Q returns the modulus.
func (p Parameters) Q() uint64 {
	return p.q
}

// Psi returns the primitive 2N-th root of unity of the transform.
func (p Parameters) Psi() uint64 {
	if p.table == nil {
		return 0
	}
	return p.table.Psi
}

// Reduction returns the modular reduction of the transform.
func (p Parameters) Reduction() Reduction {
	return p.reduction
}

// Workers returns the number of workers of the default dispatcher.
// Zero stands for the number of logical CPUs.
func (p Parameters) Workers() int {
	return p.workers
}

// RootTable returns the root table of the parameters.
// The returned table must not be modified.
func (p Parameters) RootTable() *ring.RootTable {
	return p.table
}

// Equal returns true if the receiver and other are the same parameters.
func (p Parameters) Equal(other *Parameters) (res bool) {
	if other == nil {
		return false
	}
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
