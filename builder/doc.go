// SPDX-License-Identifier: MIT
// Package builder generates deterministic synthetic inputs for the kernel
// engines: flat descriptor collections and ragged molecule batches.
//
// Every generator is configured through functional options that share one
// builderConfig (seed/RNG, value distribution, atom-count range, naming
// scheme). With the same seed and options the output is bit-for-bit stable,
// which makes the package suitable for golden tests, benchmarks and the
// `lvkernel gen` command.
//
// Generators:
//
//   - Descriptors(n, width, opts...)      → *matrix.Dense (one row per descriptor)
//   - DescriptorRows(n, width, opts...)   → [][]float64
//   - Molecules(nmol, width, opts...)     → []*Molecule (implements atomkernel.Molecule)
//
// Value distributions are pluggable ValueFn values (ConstantValueFn,
// UniformValueFn, NormalValueFn); molecule names come from an IDFn.
//
// Option constructors panic on meaningless arguments; generators never panic
// and report size problems with ErrBadSize.
package builder
