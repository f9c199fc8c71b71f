package concurrency

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/tuneinsight/dwt/utils"
)

// ErrKernelPanic is wrapped by the error returned by a [Dispatcher]
// when a kernel invocation panics.
var ErrKernelPanic = errors.New("kernel panic")

// Kernel is the body of a parallel loop. It is invoked once per
// work item index and must only touch the data owned by that index.
type Kernel func(idx int)

// Dispatcher runs a [Kernel] over the indexes [0, workCount).
// Dispatch blocks until every invocation has returned: the return of
// Dispatch is a barrier. Invocations may run in any order and concurrently.
type Dispatcher interface {
	Dispatch(workCount int, kernel Kernel) (err error)
}

// DispatcherFunc is an adapter to use ordinary functions as [Dispatcher].
type DispatcherFunc func(workCount int, kernel Kernel) (err error)

// Dispatch calls f(workCount, kernel).
func (f DispatcherFunc) Dispatch(workCount int, kernel Kernel) (err error) {
	return f(workCount, kernel)
}

// Sequential is a [Dispatcher] running all the work items
// on the calling goroutine, in increasing index order.
type Sequential struct{}

// Dispatch runs kernel(0), ..., kernel(workCount-1).
func (Sequential) Dispatch(workCount int, kernel Kernel) (err error) {
	return runRange(kernel, 0, workCount)
}

// runRange runs kernel over [start, end) and converts a panic into an error.
func runRange(kernel Kernel, start, end int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: work items [%d, %d): %v", ErrKernelPanic, start, end, r)
		}
	}()
	for i := start; i < end; i++ {
		kernel(i)
	}
	return
}

// WorkerPool is a [Dispatcher] splitting the work items into contiguous
// chunks executed by at most Workers() goroutines at the same time.
//
// Chunk lengths are multiples of the grain, the number of uint64 in a
// cache line, so that two goroutines rarely write on the same line.
// A WorkerPool can be used concurrently by multiple callers.
type WorkerPool struct {
	workers int
	grain   int
}

// NewWorkerPool creates a new [WorkerPool] with the given number of workers.
// If workers <= 0, the number of logical CPUs is used.
func NewWorkerPool(workers int) *WorkerPool {

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	grain := 8
	if cpuid.CPU.CacheLine > 0 {
		grain = utils.Max(1, cpuid.CPU.CacheLine/8)
	}

	return &WorkerPool{
		workers: workers,
		grain:   grain,
	}
}

// Workers returns the maximum number of goroutines running work items at the same time.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Grain returns the granularity of the chunks, in work items.
func (p *WorkerPool) Grain() int {
	return p.grain
}

// Dispatch runs kernel over [0, workCount) and waits for all the chunks,
// including when one of them fails. It returns the first encountered error.
func (p *WorkerPool) Dispatch(workCount int, kernel Kernel) (err error) {

	if workCount <= 0 {
		return
	}

	if p.workers == 1 || workCount <= p.grain {
		return runRange(kernel, 0, workCount)
	}

	chunk := utils.RoundUp((workCount+p.workers-1)/p.workers, p.grain)

	ids := make([]int, p.workers)
	for i := range ids {
		ids[i] = i
	}

	rm := NewResourceManager(ids)

	for start := 0; start < workCount; start += chunk {
		start, end := start, utils.Min(start+chunk, workCount)
		rm.Run(func(_ int) (err error) {
			return runRange(kernel, start, end)
		})
	}

	return rm.Wait()
}

// WithContext returns a [Dispatcher] that checks ctx before forwarding each
// call to d, and returns the context error without running any work item
// once ctx is done. Calls already forwarded to d are not interrupted.
func WithContext(ctx context.Context, d Dispatcher) Dispatcher {
	return DispatcherFunc(func(workCount int, kernel Kernel) (err error) {
		if err = ctx.Err(); err != nil {
			return
		}
		return d.Dispatch(workCount, kernel)
	})
}
