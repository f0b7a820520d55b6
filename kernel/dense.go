// SPDX-License-Identifier: MIT
// Package kernel - dense engine.
//
// Contract:
//   - A is n_a×d and B is n_b×d (after layout normalisation); K is n_a×n_b with
//     K[i][j] = exp(-c · dist(A_i, B_j)).
//   - Output row i is written by exactly one worker; no locks are taken.
//   - Validation order: nil → metric → sigma → dimensions → finiteness →
//     budget, all before the result is allocated.
//   - Zero rows on either side yield an empty (0×n_b or n_a×0) result.

package kernel

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/katalvlaran/lvkernel/workerpool"
)

const (
	opLaplacian     = "Laplacian"
	opGaussian      = "Gaussian"
	opCompute       = "Compute"
	opLaplacianRows = "LaplacianRows"
	opGaussianRows  = "GaussianRows"
)

// Laplacian returns K[i][j] = exp(-Σ_k|A_i[k]-B_j[k]| / sigma).
//
// Errors: ErrNilInput, ErrInvalidSigma, ErrDimensionMismatch, ErrNonFinite
// (all wrapping ErrInvalidInput) and ErrAllocation.
func Laplacian(a, b matrix.Matrix, sigma float64, opts ...Option) (*matrix.Dense, error) {
	return compute(opLaplacian, MetricLaplacian, a, b, sigma, GatherOptions(opts...))
}

// Gaussian returns K[i][j] = exp(-Σ_k(A_i[k]-B_j[k])² / (2 sigma²)).
// Errors as Laplacian.
func Gaussian(a, b matrix.Matrix, sigma float64, opts ...Option) (*matrix.Dense, error) {
	return compute(opGaussian, MetricGaussian, a, b, sigma, GatherOptions(opts...))
}

// Compute evaluates the kernel selected by metric.
func Compute(metric Metric, a, b matrix.Matrix, sigma float64, opts ...Option) (*matrix.Dense, error) {
	return compute(opCompute, metric, a, b, sigma, GatherOptions(opts...))
}

// LaplacianRows is Laplacian over plain slices, one descriptor per inner slice.
// Layout options are ignored; ragged inner slices yield ErrDimensionMismatch.
func LaplacianRows(a, b [][]float64, sigma float64, opts ...Option) (*matrix.Dense, error) {
	return computeRows(opLaplacianRows, MetricLaplacian, a, b, sigma, opts)
}

// GaussianRows is Gaussian over plain slices.
func GaussianRows(a, b [][]float64, sigma float64, opts ...Option) (*matrix.Dense, error) {
	return computeRows(opGaussianRows, MetricGaussian, a, b, sigma, opts)
}

func computeRows(op string, metric Metric, a, b [][]float64, sigma float64, opts []Option) (*matrix.Dense, error) {
	if a == nil || b == nil {
		return nil, kernelErrorf(op, ErrNilInput, nil)
	}
	o := GatherOptions(opts...)
	o.Layout = RowMajor

	ma, err := matrix.FromRows(a, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, kernelErrorf(op, ErrDimensionMismatch, fmt.Errorf("A: %w", err))
	}
	mb, err := matrix.FromRows(b, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, kernelErrorf(op, ErrDimensionMismatch, fmt.Errorf("B: %w", err))
	}
	if sameRows(a, b) {
		mb = ma
	}

	return compute(op, metric, ma, mb, sigma, o)
}

// sameRows reports whether a and b share the same backing outer slice.
func sameRows(a, b [][]float64) bool {
	return len(a) > 0 && len(a) == len(b) && &a[0] == &b[0]
}

func compute(op string, metric Metric, a, b matrix.Matrix, sigma float64, o Options) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, kernelErrorf(op, ErrNilInput, fmt.Errorf("A: %w", err))
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, kernelErrorf(op, ErrNilInput, fmt.Errorf("B: %w", err))
	}
	if !metric.valid() {
		return nil, fmt.Errorf("%s: %w: unknown metric %d", op, ErrInvalidInput, int(metric))
	}
	if err := ValidateSigma(sigma); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	same := sameDense(a, b)

	// Logical extents: n descriptors of length d.
	na, da := extents(a, o.Layout)
	nb, db := extents(b, o.Layout)
	if na > 0 && nb > 0 {
		if err := sameLength(a, b, da, db, o.Layout); err != nil {
			return nil, kernelErrorf(op, ErrDimensionMismatch, err)
		}
	}
	if o.ValidateFinite {
		if err := matrix.ValidateFinite(a); err != nil {
			return nil, kernelErrorf(op, ErrNonFinite, fmt.Errorf("A: %w", err))
		}
		if !same {
			if err := matrix.ValidateFinite(b); err != nil {
				return nil, kernelErrorf(op, ErrNonFinite, fmt.Errorf("B: %w", err))
			}
		}
	}
	if err := checkBudget(a, b, na, nb, same, o); err != nil {
		return nil, kernelErrorf(op, ErrAllocation, err)
	}

	ra, err := normalise(a, o.Layout)
	if err != nil {
		return nil, fmt.Errorf("%s: A: %w", op, err)
	}
	rb := ra
	if !same {
		if rb, err = normalise(b, o.Layout); err != nil {
			return nil, fmt.Errorf("%s: B: %w", op, err)
		}
	}

	out, err := matrix.NewDenseAllowEmpty(na, nb)
	if err != nil {
		return nil, kernelErrorf(op, ErrAllocation, err)
	}
	if na == 0 || nb == 0 {
		return out, nil
	}

	symmetric := same && o.SymmetryShortcut
	pool, release := o.acquirePool(workSize(na, nb, da))
	defer release()
	fill(out, ra, rb, metric, metric.Coefficient(sigma), symmetric, pool)

	return out, nil
}

// sameLength checks that A and B descriptors agree in length. Row-major
// descriptors are rows, so the column counts must match.
func sameLength(a, b matrix.Matrix, da, db int, layout Layout) error {
	if layout == RowMajor {
		if err := matrix.ValidateSameCols(a, b); err != nil {
			return fmt.Errorf("A has length %d, B has length %d: %w", da, db, err)
		}
		return nil
	}
	if da != db {
		return fmt.Errorf("A has length %d, B has length %d", da, db)
	}

	return nil
}

// sameDense reports whether a and b are the same *matrix.Dense. Other
// Matrix implementations are never treated as identical, since their dynamic
// types need not be comparable.
func sameDense(a, b matrix.Matrix) bool {
	da, okA := a.(*matrix.Dense)
	db, okB := b.(*matrix.Dense)

	return okA && okB && da == db
}

// extents returns (count, length) of the descriptors stored in m.
func extents(m matrix.Matrix, l Layout) (n, d int) {
	if l == ColumnMajor {
		return m.Cols(), m.Rows()
	}

	return m.Rows(), m.Cols()
}

// checkBudget sums the output cells and any normalised input copies and
// compares the byte total with o.MaxBytes.
func checkBudget(a, b matrix.Matrix, na, nb int, same bool, o Options) error {
	cells, err := matrix.CheckedSize(na, nb)
	if err != nil {
		return fmt.Errorf("%d×%d result: %w", na, nb, err)
	}
	total := int64(cells)
	for i, m := range []matrix.Matrix{a, b} {
		if i == 1 && same {
			break
		}
		if _, dense := m.(*matrix.Dense); dense && o.Layout == RowMajor {
			continue
		}
		total += int64(m.Rows()) * int64(m.Cols())
	}
	if total > math.MaxInt64/8 || total*8 > o.MaxBytes {
		return fmt.Errorf("need %d float64 values, budget %d bytes", total, o.MaxBytes)
	}

	return nil
}

// normalise returns a row-major *Dense view of m (no copy when m already is one).
func normalise(m matrix.Matrix, l Layout) (*matrix.Dense, error) {
	if l == ColumnMajor {
		return matrix.Transpose(m)
	}

	return matrix.ToDense(m)
}

// fill writes out[i][j] = exp(-coef · dist(A_i, B_j)). With symmetric set,
// only j ≥ i is evaluated and the lower triangle is mirrored afterwards, so
// the result is exactly symmetric.
func fill(out, a, b *matrix.Dense, metric Metric, coef float64, symmetric bool, pool *workerpool.Pool) {
	na, nb, d := a.Rows(), b.Rows(), a.Cols()
	ad, bd, od := a.Data(), b.Data(), out.Data()
	dist := sqL2Impl
	if metric == MetricLaplacian {
		dist = l1Impl
	}

	row := func(i int) {
		x := ad[i*d : (i+1)*d]
		dst := od[i*nb : (i+1)*nb]
		j0 := 0
		if symmetric {
			j0 = i
		}
		for j := j0; j < nb; j++ {
			dst[j] = math.Exp(-coef * dist(x, bd[j*d:(j+1)*d]))
		}
	}

	if !symmetric {
		pool.ParallelFor(na, func(start, end int) {
			for i := start; i < end; i++ {
				row(i)
			}
		})
		return
	}

	// Triangle rows shrink with i, so balance with work stealing.
	pool.ParallelForAtomic(na, row)
	pool.ParallelFor(na, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < i; j++ {
				od[i*nb+j] = od[j*nb+i]
			}
		}
	})
}
