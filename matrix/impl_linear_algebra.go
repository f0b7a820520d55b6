// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// transpose (layout normalisation), dense materialisation and row/column
// ingestion. All functions perform strict fail-fast validation and return
// clear errors on dimension mismatches.
//
// Purpose:
//   - Normalise storage once at the boundary: callers hand over row-major or
//     column-major collections, kernels always see row-major *Dense.
//   - Define operation tags and shared constants for determinism and error reporting.

package matrix

import "fmt"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opTranspose   = "Transpose"
	opToDense     = "ToDense"
	opFromRows    = "FromRows"
	opFromColumns = "FromColumns"
	opAllClose    = "AllClose"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Transpose returns a new matrix mᵀ (dimensions flipped). Zero-sized inputs
// yield zero-sized outputs.
//
// Implementation:
//   - Stage 1: ValidateNotNil(m). Allocate Dense(cols, rows).
//   - Stage 2: If *Dense, flat index remap; else generic At/Set loop.
//
// Errors:
//   - ErrNilMatrix (from ValidateNotNil).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - Column-major descriptor collections are transposed exactly once, before
//     the compute-heavy step.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDenseAllowEmpty(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	// Fast-path for Dense → Dense
	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}
		return res, nil
	}

	// Fallback: generic interface loop
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// ToDense returns m itself when it already is a *Dense, otherwise a fresh
// row-major copy. Callers must not mutate the result when they do not own m.
// Complexity: O(1) for *Dense, O(r*c) otherwise.
func ToDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToDense, err)
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDenseAllowEmpty(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opToDense, err)
	}
	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opToDense, err)
			}
			res.data[i*cols+j] = v
		}
	}

	return res, nil
}

// FromRows copies rows into a new len(rows)×len(rows[0]) *Dense.
// An empty slice yields a 0×0 matrix.
//
// Errors:
//   - ErrRaggedRows when rows differ in length.
//   - ErrNaNInf when a value is non-finite and the numeric policy is on (default).
//
// Complexity: O(r*c).
func FromRows(rows [][]float64, opts ...Option) (*Dense, error) {
	o := gatherOptions(opts...)
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	res, err := NewDenseAllowEmpty(r, c)
	if err != nil {
		return nil, matrixErrorf(opFromRows, err)
	}
	res.validateNaNInf = o.validateNaNInf

	for i, row := range rows {
		if len(row) != c {
			return nil, matrixErrorf(opFromRows,
				fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), c, ErrRaggedRows))
		}
		if o.validateNaNInf {
			for j, v := range row {
				if isNonFinite(v) {
					return nil, matrixErrorf(opFromRows, denseErrorf(ctxSet, i, j, ErrNaNInf))
				}
			}
		}
		copy(res.data[i*c:(i+1)*c], row)
	}

	return res, nil
}

// FromColumns treats each inner slice as a column and returns the row-major
// matrix whose column j is cols[j]. It is the ingestion path for column-major
// (Fortran-ordered) collections.
//
// Errors: as FromRows (ErrRaggedRows for unequal columns).
// Complexity: O(r*c).
func FromColumns(cols [][]float64, opts ...Option) (*Dense, error) {
	t, err := FromRows(cols, opts...)
	if err != nil {
		return nil, matrixErrorf(opFromColumns, err)
	}

	return Transpose(t)
}
