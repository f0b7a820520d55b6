// Package kernel evaluates dense Laplacian and Gaussian kernel matrices
// between two collections of descriptor vectors.
//
// Given A (n_a descriptors) and B (n_b descriptors) of a common length d,
// the result K is an n_a×n_b *matrix.Dense with
//
//	Laplacian: K[i][j] = exp(-Σ_k |A_i[k] - B_j[k]| / σ)
//	Gaussian:  K[i][j] = exp(-Σ_k (A_i[k] - B_j[k])² / (2σ²))
//
// Inputs may be stored one descriptor per row (RowMajor, the default) or one
// per column (WithLayout(ColumnMajor)); foreign layouts are normalised once
// before evaluation. Rows of K are distributed over a workerpool.Pool, each
// row owned by a single worker.
//
// Calls are pure and reentrant: inputs are only read, and the returned
// matrix is owned by the caller. Invalid arguments are reported with
// sentinel errors that all satisfy errors.Is(err, ErrInvalidInput); a result
// larger than the configured byte budget yields ErrAllocation before any
// large buffer is allocated.
//
// Quick start:
//
//	a, _ := matrix.FromRows([][]float64{{0, 0}, {1, 1}})
//	b, _ := matrix.FromRows([][]float64{{0, 0}})
//	k, err := kernel.Laplacian(a, b, 1.0)
//	// k = [[1], [exp(-2)]]
package kernel
