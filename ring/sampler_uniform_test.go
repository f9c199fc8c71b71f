package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dwt/utils/sampling"
)

func TestUniformSampler(t *testing.T) {

	for _, q := range testModuli {

		t.Run(testString("UniformSampler", q), func(t *testing.T) {

			sampler := NewUniformSampler(sampling.NewSeededPRNG(1), q)

			values := sampler.ReadNew(1 << 10)
			for _, x := range values {
				require.Less(t, x, q)
			}

			// Same seed, same stream
			require.Equal(t, values, NewUniformSampler(sampling.NewSeededPRNG(1), q).ReadNew(1<<10))

			// Other seed, other stream
			require.NotEqual(t, values, NewUniformSampler(sampling.NewSeededPRNG(2), q).ReadNew(1<<10))
		})
	}
}
