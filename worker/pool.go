// Package worker provides a fixed-size worker pool for running many
// independent query analyses concurrently, used by the engine's batch
// entry points (the CLI lints whole files of queries through it). The
// core functions are pure, so parallelism needs no coordination beyond
// fan-out and ordered fan-in.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs jobs across a fixed number of goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool. count <= 0 selects runtime.NumCPU().
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Pool{workers: count}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Map applies fn to every input and returns the results in input order.
// It stops early when ctx is canceled; unprocessed slots keep their zero
// value and the context error is returned.
func Map[T, R any](ctx context.Context, p *Pool, inputs []T, fn func(T) R) ([]R, error) {
	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = fn(inputs[i])
			}
		}()
	}

	var err error
feed:
	for i := range inputs {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, err
}
