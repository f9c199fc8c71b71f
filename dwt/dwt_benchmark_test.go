package dwt

import (
	"fmt"
	"testing"

	"github.com/tuneinsight/dwt/ring"
	"github.com/tuneinsight/dwt/utils/concurrency"
	"github.com/tuneinsight/dwt/utils/sampling"
)

func BenchmarkTransform(b *testing.B) {

	for _, logN := range []int{10, 12, 14, 16} {

		for _, reduction := range []Reduction{Montgomery, Barrett, Shoup} {

			params, err := NewParametersFromLiteral(ParametersLiteral{LogN: logN, LogQ: 60, Reduction: reduction})
			if err != nil {
				b.Fatal(err)
			}

			for _, d := range []concurrency.Dispatcher{concurrency.Sequential{}, concurrency.NewWorkerPool(0)} {

				eval, err := NewEngine(params, d)
				if err != nil {
					b.Fatal(err)
				}

				values := ring.NewUniformSampler(sampling.NewSeededPRNG(0), params.Q()).ReadNew(params.N())

				name := fmt.Sprintf("%s/logN=%d/%T", reduction, logN, d)

				b.Run("Forward/"+name, func(b *testing.B) {
					for i := 0; i < b.N; i++ {
						if err := eval.Forward(values); err != nil {
							b.Fatal(err)
						}
					}
				})

				b.Run("Backward/"+name, func(b *testing.B) {
					for i := 0; i < b.N; i++ {
						if err := eval.Backward(values); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		}
	}
}
