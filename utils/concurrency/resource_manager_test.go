package concurrency

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResourceManager(t *testing.T) {

	t.Run("NoError", func(t *testing.T) {

		acc := make([]int, 8)

		resources := make([]bool, 4)

		rm := NewResourceManager(resources)

		for i := range acc {
			i := i
			rm.Run(func(r bool) (err error) {
				acc[i]++
				return
			})
		}

		require.NoError(t, rm.Wait())

		for i := range acc {
			require.Equal(t, acc[i], 1)
		}
	})

	t.Run("WithError", func(t *testing.T) {
		acc := make([]int, 8)

		resources := make([]bool, 4)

		rm := NewResourceManager(resources)

		for i := range acc {
			i := i
			rm.Run(func(r bool) (err error) {
				acc[i]++
				if i == 2 {
					return fmt.Errorf("something bad happened")
				}

				return
			})
		}

		require.Error(t, rm.Wait())
	})

	t.Run("WaitForAll", func(t *testing.T) {

		var running int64

		rm := NewResourceManager(make([]bool, 4))

		rm.Run(func(r bool) (err error) {
			return fmt.Errorf("fails immediately")
		})

		// Gives the failing task time to record its error
		time.Sleep(10 * time.Millisecond)

		for i := 0; i < 4; i++ {
			atomic.AddInt64(&running, 1)
			rm.Add(1)
			go func() {
				defer rm.Done()
				defer atomic.AddInt64(&running, -1)
				time.Sleep(20 * time.Millisecond)
			}()
		}

		require.Error(t, rm.Wait())
		require.Equal(t, int64(0), atomic.LoadInt64(&running))
	})

	t.Run("BoundedConcurrency", func(t *testing.T) {

		var current, peak int64

		rm := NewResourceManager(make([]int, 2))

		for i := 0; i < 16; i++ {
			rm.Run(func(_ int) (err error) {
				c := atomic.AddInt64(&current, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if c <= p || atomic.CompareAndSwapInt64(&peak, p, c) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt64(&current, -1)
				return
			})
		}

		require.NoError(t, rm.Wait())
		require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	})
}
