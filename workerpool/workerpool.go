// SPDX-License-Identifier: MIT

// Package workerpool provides a persistent, reusable worker pool for the
// data-parallel kernel loops. A Pool is created once and reused across many
// kernel evaluations, so goroutines are not spawned per call.
//
// Two scheduling modes are offered:
//
//   - ParallelFor: static, contiguous chunks. Every index range is owned by
//     exactly one worker, so writers into disjoint output rows need no locks.
//   - ParallelForAtomic: work stealing through an atomic counter, for uneven
//     per-item cost (ragged molecule batches).
//
// Go is a bounded fan-out for fallible work built on errgroup: the first
// error is returned and the remaining items are skipped.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(rows, func(start, end int) {
//	    fillRows(start, end)
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
// A nil *Pool runs everything sequentially on the calling goroutine.
type Pool struct {
	numWorkers int
	workC      chan workItem

	// mu orders sends on workC against Close.
	mu     sync.RWMutex
	closed atomic.Bool
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool (1 for a nil pool).
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}

	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe. Calls racing with Close finish
// their remaining chunks on the calling goroutine.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Swap(true) {
		return
	}
	close(p.workC)
}

// submit hands item to a worker, or runs it inline once the pool is closed.
func (p *Pool) submit(item workItem) {
	p.mu.RLock()
	if p.closed.Load() {
		p.mu.RUnlock()
		item.fn()
		item.barrier.Done()
		return
	}
	p.workC <- item
	p.mu.RUnlock()
}

// sequential reports whether work must run on the caller's goroutine.
func (p *Pool) sequential() bool {
	return p == nil || p.closed.Load()
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each worker processes a contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p.sequential() {
		fn(0, n)
		return
	}

	// Don't use more workers than items.
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	// Ceil division so every index is covered.
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}

		p.submit(workItem{
			fn: func() {
				fn(start, end)
			},
			barrier: &wg,
		})
	}

	wg.Wait()
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing. This provides better load balancing when work per item varies.
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p.sequential() {
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var nextIdx atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.submit(workItem{
			fn: func() {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(idx)
				}
			},
			barrier: &wg,
		})
	}

	wg.Wait()
}

// Go runs fn(i) for i in [0, n) with at most limit concurrent goroutines and
// returns the first non-nil error. Items not yet started when an error occurs
// are skipped. limit <= 0 means GOMAXPROCS.
//
// It does not use the persistent workers: fallible work (e.g. collaborators
// producing descriptors) must not be able to stall the shared pool.
func Go(n, limit int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	var failed atomic.Bool
	for i := range n {
		if failed.Load() {
			break
		}
		g.Go(func() error {
			if failed.Load() {
				return nil
			}
			if err := fn(i); err != nil {
				failed.Store(true)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
