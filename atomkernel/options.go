// SPDX-License-Identifier: MIT
// Package atomkernel - functional options.
//
// Defaults: GOMAXPROCS workers, kernel.DefaultMaxBytes budget, finite-value
// validation on, Sum reduction, MolAtomComp input tensors, symmetric
// evaluation when both sides are the same batch.

package atomkernel

import (
	"fmt"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/workerpool"
)

// sequentialThreshold is the number of distance element-operations below
// which evaluation stays on the caller's goroutine.
const sequentialThreshold = 1 << 15

// Options holds engine parameters; build them with GatherOptions.
type Options struct {
	Workers          int
	Pool             *workerpool.Pool
	MaxBytes         int64
	ValidateFinite   bool
	Reduction        Reduction
	TensorLayout     TensorLayout
	SymmetryShortcut bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxBytes:         kernel.DefaultMaxBytes,
		ValidateFinite:   true,
		Reduction:        Sum,
		TensorLayout:     MolAtomComp,
		SymmetryShortcut: true,
	}
}

// GatherOptions applies opts over DefaultOptions, skipping nil entries.
func GatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithWorkers bounds parallelism (0 = GOMAXPROCS, 1 = sequential). Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("atomkernel: WithWorkers(%d): negative worker count", n))
	}

	return func(o *Options) { o.Workers = n }
}

// WithPool evaluates on a caller-owned pool that is left open.
func WithPool(p *workerpool.Pool) Option {
	return func(o *Options) { o.Pool = p }
}

// WithMaxBytes caps padded buffers plus outputs. Panics if n <= 0.
func WithMaxBytes(n int64) Option {
	if n <= 0 {
		panic(fmt.Sprintf("atomkernel: WithMaxBytes(%d): budget must be > 0", n))
	}

	return func(o *Options) { o.MaxBytes = n }
}

// WithValidateFinite toggles the NaN/±Inf scan over valid atom rows.
func WithValidateFinite(on bool) Option {
	return func(o *Options) { o.ValidateFinite = on }
}

// WithReduction picks Sum or Mean. Panics on an unknown value.
func WithReduction(r Reduction) Option {
	if r != Sum && r != Mean {
		panic(fmt.Sprintf("atomkernel: WithReduction(%d): unknown reduction", int(r)))
	}

	return func(o *Options) { o.Reduction = r }
}

// WithTensorLayout declares the axis order of tensors passed to the padded
// entry points. Panics on an unknown layout.
func WithTensorLayout(l TensorLayout) Option {
	if l != MolAtomComp && l != CompAtomMol {
		panic(fmt.Sprintf("atomkernel: WithTensorLayout(%d): unknown layout", int(l)))
	}

	return func(o *Options) { o.TensorLayout = l }
}

// WithNoSymmetryShortcut evaluates every molecule pair even for a self-kernel.
func WithNoSymmetryShortcut() Option {
	return func(o *Options) { o.SymmetryShortcut = false }
}

func (o Options) acquirePool(work int) (*workerpool.Pool, func()) {
	if o.Pool != nil {
		return o.Pool, func() {}
	}
	if o.Workers == 1 || work < sequentialThreshold {
		return nil, func() {}
	}
	p := workerpool.New(o.Workers)

	return p, p.Close
}
