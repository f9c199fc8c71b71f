// Package sampling implements secure and deterministic sources of random bytes.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for secure generation of random bytes.
type PRNG interface {
	io.Reader
}

// ThreadSafePRNG reads from the operating system's CSPRNG
// and can be shared between goroutines.
type ThreadSafePRNG struct {
}

// NewPRNG returns a new PRNG that is thread-safe.
func NewPRNG() *ThreadSafePRNG {
	return &ThreadSafePRNG{}
}

// Read reads len(sum) random bytes on sum.
func (prng *ThreadSafePRNG) Read(sum []byte) (n int, err error) {
	return rand.Read(sum)
}

// KeyedPRNG deterministically generates a stream of bytes from a key using the
// extendable output of blake2b. Two instances created with the same key produce
// the same stream, which makes test vectors and benchmark inputs reproducible.
// A KeyedPRNG created with key=nil is insecure.
//
// Concurrent calls to Read are serialized but their interleaving is not,
// so the resulting streams are only deterministic when read from a single goroutine.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of [KeyedPRNG].
// The key must be at most 64 bytes.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, err
	}
	prng := &KeyedPRNG{xof: xof, key: make([]byte, len(key))}
	copy(prng.key, key)
	return prng, nil
}

// NewSeededPRNG creates a new [KeyedPRNG] keyed with the
// little-endian encoding of seed.
func NewSeededPRNG(seed uint64) *KeyedPRNG {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, seed)
	prng, err := NewKeyedPRNG(key)
	if err != nil {
		// Sanity check, an 8-byte key is always valid.
		panic(err)
	}
	return prng
}

// Key returns a copy of the key used to seed the PRNG.
// This value can be used with [NewKeyedPRNG] to instantiate
// a new PRNG that will produce the same stream of bytes.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads bytes from the KeyedPRNG on sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
