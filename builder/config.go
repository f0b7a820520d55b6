// SPDX-License-Identifier: MIT
// Package: lvkernel/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng       = nil               (generators that need randomness fail with ErrNeedRandSource)
//   • valueFn   = UniformValueFn(0, defaultValueHigh)
//   • idFn      = SymbolNumberIDFn("mol")
//   • atoms     = [defaultMinAtoms, defaultMaxAtoms]
//   • noise     = 0 (no jitter on repeated atoms)

package builder

import "math/rand"

// builderConfig aggregates all knobs used by the generators.
// It is passed by value so generators cannot leak changes back to callers.
type builderConfig struct {
	rng      *rand.Rand
	valueFn  ValueFn
	idFn     IDFn
	minAtoms int
	maxAtoms int
	// Probability that an atom repeats the previous one (plus noise), which
	// produces near-duplicate rows similar to chemically equivalent atoms.
	repeatP float64
	noise   float64
}

const (
	defaultValueHigh = 10.0
	defaultMinAtoms  = 1
	defaultMaxAtoms  = 8
	defaultMolPrefix = "mol"
)

// newBuilderConfig applies opts over the defaults (last wins).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		valueFn:  UniformValueFn(0, defaultValueHigh),
		idFn:     SymbolNumberIDFn(defaultMolPrefix),
		minAtoms: defaultMinAtoms,
		maxAtoms: defaultMaxAtoms,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
