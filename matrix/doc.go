// Package matrix offers the dense containers used by the kernel engines.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set, no-copy
//     RawRow windows for kernels, and legal degenerate shapes via
//     NewDenseAllowEmpty.
//   - Tensor3: a contiguous three-axis buffer backing padded batches, with
//     SwapAxes02 for one-shot layout normalisation.
//   - Transpose, FromRows, FromColumns and ToDense to move foreign layouts
//     into the canonical row-major one.
//   - AllClose / MaxAbsDiff for tolerance-based verification.
//   - Central validators and sentinel errors (errors.Is friendly).
//
// See the examples in this package for usage patterns.
package matrix
