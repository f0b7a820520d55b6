// SPDX-License-Identifier: MIT
// Package kernel - functional options.
//
// Defaults:
//   - Workers:   GOMAXPROCS (a fresh pool per call, closed on return)
//   - Layout:    RowMajor (one descriptor per row)
//   - MaxBytes:  DefaultMaxBytes
//   - Finite:    validated (NaN/±Inf rejected with ErrNonFinite)
//   - Symmetry:  when A and B are the same *matrix.Dense, only the upper
//     triangle is evaluated and mirrored
//
// Option constructors panic on nonsensical arguments; evaluation routines
// never panic on user input.

package kernel

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvkernel/workerpool"
)

// Layout tells the engine how descriptor vectors are stored in a matrix.
type Layout int

const (
	// RowMajor: matrix is n×d, one descriptor per row (canonical).
	RowMajor Layout = iota
	// ColumnMajor: matrix is d×n, one descriptor per column. It is normalised
	// once to RowMajor before evaluation.
	ColumnMajor
)

// String returns "row-major" or "column-major".
func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// DefaultMaxBytes caps the float64 storage a single call may allocate (16 GiB).
const DefaultMaxBytes int64 = 16 << 30

// parallelThreshold is the number of distance element-operations below which
// a call runs on the caller's goroutine instead of spinning up a pool.
const parallelThreshold = 1 << 15

// Options holds evaluation parameters. The zero value is not meaningful; use
// DefaultOptions.
type Options struct {
	Workers          int
	Pool             *workerpool.Pool
	Layout           Layout
	MaxBytes         int64
	ValidateFinite   bool
	SymmetryShortcut bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Workers:          0,
		Layout:           RowMajor,
		MaxBytes:         DefaultMaxBytes,
		ValidateFinite:   true,
		SymmetryShortcut: true,
	}
}

// GatherOptions applies opts over DefaultOptions. Nil options are skipped.
func GatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithWorkers bounds the worker count; 0 means GOMAXPROCS, 1 forces
// sequential evaluation. Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("kernel: WithWorkers(%d): negative worker count", n))
	}

	return func(o *Options) { o.Workers = n }
}

// WithPool evaluates on a caller-owned pool, which is not closed. It takes
// precedence over WithWorkers.
func WithPool(p *workerpool.Pool) Option {
	return func(o *Options) { o.Pool = p }
}

// WithLayout declares how descriptors are stored in the input matrices.
// Panics on an unknown layout.
func WithLayout(l Layout) Option {
	if l != RowMajor && l != ColumnMajor {
		panic(fmt.Sprintf("kernel: WithLayout(%d): unknown layout", int(l)))
	}

	return func(o *Options) { o.Layout = l }
}

// WithMaxBytes sets the allocation budget in bytes. Panics if n <= 0.
func WithMaxBytes(n int64) Option {
	if n <= 0 {
		panic(fmt.Sprintf("kernel: WithMaxBytes(%d): budget must be > 0", n))
	}

	return func(o *Options) { o.MaxBytes = n }
}

// WithValidateFinite toggles the NaN/±Inf scan of the inputs. With the scan
// off, non-finite inputs propagate into the result unchanged.
func WithValidateFinite(on bool) Option {
	return func(o *Options) { o.ValidateFinite = on }
}

// WithNoSymmetryShortcut forces full evaluation even when A and B are the
// same matrix.
func WithNoSymmetryShortcut() Option {
	return func(o *Options) { o.SymmetryShortcut = false }
}

// workSize estimates the distance work of an n1×n2 evaluation over length-d
// descriptors, saturating at math.MaxInt32.
func workSize(n1, n2, d int) int {
	w := float64(n1) * float64(n2) * float64(max(d, 1))

	return int(min(w, math.MaxInt32))
}

// acquirePool resolves the pool for a job of the given size. release must be
// called when evaluation finishes. A nil pool means sequential.
func (o Options) acquirePool(work int) (pool *workerpool.Pool, release func()) {
	if o.Pool != nil {
		return o.Pool, func() {}
	}
	if o.Workers == 1 || work < parallelThreshold {
		return nil, func() {}
	}
	p := workerpool.New(o.Workers)

	return p, p.Close
}
