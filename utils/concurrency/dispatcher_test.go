package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testString(opname string, d Dispatcher) string {
	switch d := d.(type) {
	case *WorkerPool:
		return fmt.Sprintf("%s/WorkerPool/Workers=%d", opname, d.Workers())
	default:
		return fmt.Sprintf("%s/%T", opname, d)
	}
}

func testDispatchers() []Dispatcher {
	return []Dispatcher{
		Sequential{},
		NewWorkerPool(1),
		NewWorkerPool(3),
		NewWorkerPool(0),
	}
}

func TestDispatcher(t *testing.T) {

	for _, d := range testDispatchers() {

		t.Run(testString("EachIndexOnce", d), func(t *testing.T) {
			for _, workCount := range []int{0, 1, 7, 64, 1000, 4097} {
				hits := make([]int32, workCount)
				require.NoError(t, d.Dispatch(workCount, func(idx int) {
					atomic.AddInt32(&hits[idx], 1)
				}))
				for i := range hits {
					require.Equal(t, int32(1), hits[i], "workCount=%d idx=%d", workCount, i)
				}
			}
		})

		t.Run(testString("Panic", d), func(t *testing.T) {

			var done int64

			err := d.Dispatch(4096, func(idx int) {
				if idx == 100 {
					panic("out of range")
				}
				atomic.AddInt64(&done, 1)
			})

			require.ErrorIs(t, err, ErrKernelPanic)
		})

		t.Run(testString("Barrier", d), func(t *testing.T) {

			// Every invocation of a call must be visible to the next call.
			buf := make([]uint64, 2048)

			var mismatches int64

			for stage := 0; stage < 8; stage++ {
				stage := stage
				require.NoError(t, d.Dispatch(len(buf), func(idx int) {
					if buf[len(buf)-1-idx] != uint64(stage) {
						atomic.AddInt64(&mismatches, 1)
					}
					buf[len(buf)-1-idx]++
				}))
			}

			require.Zero(t, mismatches)
		})
	}
}

func TestWorkerPool(t *testing.T) {

	t.Run("Defaults", func(t *testing.T) {
		p := NewWorkerPool(0)
		require.Greater(t, p.Workers(), 0)
		require.Greater(t, p.Grain(), 0)
	})

	t.Run("WaitsOnFailure", func(t *testing.T) {

		p := NewWorkerPool(4)

		var finished int64

		err := p.Dispatch(64*p.Grain(), func(idx int) {
			if idx == 0 {
				panic("first chunk fails")
			}
			time.Sleep(10 * time.Microsecond)
			atomic.AddInt64(&finished, 1)
		})

		require.ErrorIs(t, err, ErrKernelPanic)

		// No invocation may still be running after Dispatch returned.
		n := atomic.LoadInt64(&finished)
		time.Sleep(20 * time.Millisecond)
		require.Equal(t, n, atomic.LoadInt64(&finished))
	})
}

func TestWithContext(t *testing.T) {

	t.Run("Active", func(t *testing.T) {
		var calls int64
		d := WithContext(context.Background(), NewWorkerPool(2))
		require.NoError(t, d.Dispatch(128, func(idx int) { atomic.AddInt64(&calls, 1) }))
		require.Equal(t, int64(128), calls)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls int64
		err := WithContext(ctx, Sequential{}).Dispatch(128, func(idx int) { atomic.AddInt64(&calls, 1) })
		require.True(t, errors.Is(err, context.Canceled))
		require.Equal(t, int64(0), calls)
	})

	t.Run("CancelledBetweenCalls", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d := WithContext(ctx, Sequential{})
		require.NoError(t, d.Dispatch(1, func(idx int) { cancel() }))
		require.ErrorIs(t, d.Dispatch(1, func(idx int) {}), context.Canceled)
	})
}
