package ring

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/dwt/utils"
	"github.com/zeebo/blake3"
)

// MaxLogN is the log2 of the largest [RootTable]: 32 on 64-bit
// platforms and 30 on 32-bit ones, so that 2^MaxLogN fits an int.
const MaxLogN = 30 + 2*(bits.UintSize/64)

// RootTable stores the powers of a primitive 2N-th root of unity psi mod Modulus,
// laid out in the order in which the butterfly networks consume them.
//
// Slot 0 of both tables is reserved and holds 1. The stage of the network with m
// butterfly groups reads the m contiguous slots starting at the sum of the group
// counts of the previous stages (plus one for the reserved slot).
type RootTable struct {
	LogN          int
	Modulus       uint64
	PrimitiveRoot uint64   // Generator of Z_Modulus^*
	Factors       []uint64 // Unique factors of Modulus-1
	Psi           uint64   // Primitive 2N-th root of unity

	// Forward[j] = psi^{bitrev(j, LogN)}.
	Forward []uint64

	// Backward[s] = psi^{-(bitrev(s-1, LogN)+1)} for s > 0.
	Backward []uint64

	// NInv = N^{-1} mod Modulus.
	NInv uint64
}

// GenRootTable generates the [RootTable] of Z_q[X]/(X^N+1) with N = 2^logN,
// using the 2N-th root of unity derived from the smallest primitive root of q.
// Factoring q-1 might be slow.
func GenRootTable(logN int, q uint64) (t *RootTable, err error) {

	if err = checkRootTableParameters(logN, q); err != nil {
		return nil, fmt.Errorf("cannot GenRootTable: %w", err)
	}

	NthRoot := uint64(2) << logN

	g, factors, err := PrimitiveRoot(q, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot GenRootTable: %w", err)
	}

	if t, err = NewRootTable(logN, q, ModExp(g, (q-1)/NthRoot, q)); err != nil {
		return nil, fmt.Errorf("cannot GenRootTable: %w", err)
	}

	t.PrimitiveRoot = g
	t.Factors = factors

	return
}

// NewRootTable generates the [RootTable] of Z_q[X]/(X^N+1) with N = 2^logN for the
// given primitive 2N-th root of unity psi. It returns an error if psi^N != -1 mod q.
func NewRootTable(logN int, q, psi uint64) (t *RootTable, err error) {

	if err = checkRootTableParameters(logN, q); err != nil {
		return nil, fmt.Errorf("cannot NewRootTable: %w", err)
	}

	N := 1 << logN

	// psi^{N} = -1 implies that psi is a primitive 2N-th root of unity.
	if psi == 0 || psi >= q || ModExp(psi, uint64(N), q) != q-1 {
		return nil, fmt.Errorf("cannot NewRootTable: psi=%d is not a primitive %d-th root of unity mod %d", psi, 2*N, q)
	}

	brc := GenBRedConstant(q)

	psiInv := ModInverse(psi, q)

	t = &RootTable{
		LogN:     logN,
		Modulus:  q,
		Psi:      psi,
		Forward:  make([]uint64, N),
		Backward: make([]uint64, N),
		NInv:     ModInverse(uint64(N), q),
	}

	t.Forward[0] = 1
	t.Backward[0] = 1

	power := uint64(1)
	powerInv := psiInv

	for j := 1; j < N; j++ {

		power = BRed(power, psi, q, brc)

		t.Forward[utils.BitReverse64(uint64(j), logN)] = power

		t.Backward[utils.BitReverse64(uint64(j-1), logN)+1] = powerInv

		powerInv = BRed(powerInv, psiInv, q, brc)
	}

	return
}

func checkRootTableParameters(logN int, q uint64) (err error) {

	if logN < 1 || logN > MaxLogN {
		return fmt.Errorf("invalid logN: %d must be between 1 and %d", logN, MaxLogN)
	}

	if err = checkArithmeticModulus(q); err != nil {
		return
	}

	if !IsPrime(q) {
		return fmt.Errorf("invalid modulus: %d is not prime", q)
	}

	if NthRoot := uint64(2) << logN; q&(NthRoot-1) != 1 {
		return fmt.Errorf("invalid modulus: %d != 1 mod NthRoot=%d", q, NthRoot)
	}

	return
}

// N returns the size of the transform.
func (t RootTable) N() int {
	return 1 << t.LogN
}

// Digest returns the BLAKE3 hash of the (LogN, Modulus, Psi, Forward, Backward) tuple.
// Two tables with the same digest produce identical transforms.
func (t RootTable) Digest() []byte {

	hasher := blake3.New()

	buf := make([]byte, 8)

	write := func(x uint64) {
		binary.LittleEndian.PutUint64(buf, x)
		hasher.Write(buf)
	}

	write(uint64(t.LogN))
	write(t.Modulus)
	write(t.Psi)

	for _, x := range t.Forward {
		write(x)
	}

	for _, x := range t.Backward {
		write(x)
	}

	return hasher.Sum(nil)
}

// Equal returns true if both tables are identical.
// The fields PrimitiveRoot and Factors are not compared as they
// are only known for tables created by [GenRootTable].
func (t RootTable) Equal(other *RootTable) bool {
	if other == nil {
		return false
	}
	return t.LogN == other.LogN &&
		t.Modulus == other.Modulus &&
		t.Psi == other.Psi &&
		t.NInv == other.NInv &&
		cmp.Equal(t.Forward, other.Forward) &&
		cmp.Equal(t.Backward, other.Backward)
}
