package ring

import (
	"encoding/binary"
	"math/bits"

	"github.com/tuneinsight/dwt/utils/sampling"
)

const uniformSamplerBufferSize = 1024

// UniformSampler wraps a [sampling.PRNG] and samples vectors
// with coefficients uniformly distributed in [0, Modulus-1].
// A UniformSampler cannot be used concurrently.
type UniformSampler struct {
	prng    sampling.PRNG
	modulus uint64
	mask    uint64
	buffer  []byte
	ptr     int
}

// NewUniformSampler creates a new instance of [UniformSampler] from a PRNG and a modulus.
func NewUniformSampler(prng sampling.PRNG, modulus uint64) (u *UniformSampler) {
	return &UniformSampler{
		prng:    prng,
		modulus: modulus,
		mask:    (1 << uint64(bits.Len64(modulus-1))) - 1,
		buffer:  make([]byte, uniformSamplerBufferSize),
		ptr:     uniformSamplerBufferSize,
	}
}

// Read samples len(values) coefficients in [0, Modulus-1] on values.
func (u *UniformSampler) Read(values []uint64) {

	var randomUint uint64

	buffer := u.buffer
	ptr := u.ptr

	for i := range values {

		// Samples an integer between [0, modulus-1]
		for {

			// Refills the buff if it runs empty
			if ptr == len(buffer) {
				if _, err := u.prng.Read(buffer); err != nil {
					// Sanity check, this error should not happen.
					panic(err)
				}
				ptr = 0
			}

			// Reads bytes from the buff
			randomUint = binary.BigEndian.Uint64(buffer[ptr:ptr+8]) & u.mask
			ptr += 8

			// If the integer is between [0, modulus-1], breaks the loop
			if randomUint < u.modulus {
				break
			}
		}

		values[i] = randomUint
	}

	u.ptr = ptr
}

// ReadNew returns a new vector of N coefficients uniformly distributed in [0, Modulus-1].
func (u *UniformSampler) ReadNew(N int) (values []uint64) {
	values = make([]uint64, N)
	u.Read(values)
	return
}
