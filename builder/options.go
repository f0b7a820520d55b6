// SPDX-License-Identifier: MIT
// Package: lvkernel/builder
//
// options.go: functional options for the generators.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"fmt"
	"math"
	"math/rand"
)

// BuilderOption customizes a generator by mutating its builderConfig.
type BuilderOption func(*builderConfig)

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand shares an explicit RNG between generators. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithValueFn overrides the per-component value generator. Panics on nil.
func WithValueFn(fn ValueFn) BuilderOption {
	if fn == nil {
		panic("builder: WithValueFn(nil)")
	}
	return func(c *builderConfig) { c.valueFn = fn }
}

// WithUniformValues draws components from U[lo, hi).
func WithUniformValues(lo, hi float64) BuilderOption {
	return WithValueFn(UniformValueFn(lo, hi))
}

// WithNormalValues draws components from N(mean, stddev).
func WithNormalValues(mean, stddev float64) BuilderOption {
	return WithValueFn(NormalValueFn(mean, stddev))
}

// WithIDScheme sets the molecule naming function. Panics on nil.
func WithIDScheme(fn IDFn) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) { c.idFn = fn }
}

// WithAtomRange bounds per-molecule atom counts to [lo, hi].
// Panics unless 0 <= lo <= hi.
func WithAtomRange(lo, hi int) BuilderOption {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("builder: WithAtomRange(%d, %d): require 0 <= lo <= hi", lo, hi))
	}
	return func(c *builderConfig) {
		c.minAtoms, c.maxAtoms = lo, hi
	}
}

// WithRepeatedAtoms makes each atom copy the previous one with probability p,
// jittered by N(0, noise). Panics unless p ∈ [0,1] and noise >= 0.
func WithRepeatedAtoms(p, noise float64) BuilderOption {
	if math.IsNaN(p) || p < 0 || p > 1 {
		panic(fmt.Sprintf("builder: WithRepeatedAtoms: p must be in [0,1], got %g", p))
	}
	if math.IsNaN(noise) || noise < 0 {
		panic(fmt.Sprintf("builder: WithRepeatedAtoms: noise must be >= 0, got %g", noise))
	}
	return func(c *builderConfig) {
		c.repeatP, c.noise = p, noise
	}
}
