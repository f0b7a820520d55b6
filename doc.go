// Package lvkernel computes Laplacian and Gaussian kernel matrices between
// collections of descriptor vectors, and between molecules made of a
// variable number of atoms.
//
// What is inside?
//
//	matrix/       Dense and Tensor3 storage, row/column ingestion, validators
//	kernel/       dense engine: K[i][j] = exp(-c · dist(A_i, B_j)), L1 or squared L2
//	atomkernel/   ragged atomic engine: padded batches, multi-sigma molecule kernels
//	workerpool/   persistent goroutine pool with static and work-stealing loops
//	builder/      reproducible synthetic descriptors and molecule batches
//	kcache/       content-addressed Badger cache of computed kernels
//	cmd/lvkernel  command-line front end
//
// Quick example:
//
//	a, _ := matrix.FromRows([][]float64{{0, 0}, {1, 1}})
//	b, _ := matrix.FromRows([][]float64{{0, 0}})
//	k, _ := kernel.Laplacian(a, b, 1)
//	// k = [[1], [0.1353…]]
//
// Everything is synchronous and CPU-bound. Parallel work runs on a
// workerpool.Pool; outputs are written with disjoint row ownership and no
// locks. Library packages never log.
//
//	go get github.com/katalvlaran/lvkernel
package lvkernel
