// Package atomkernel evaluates atomic (ragged, multi-bandwidth) kernels
// between two batches of molecules.
//
// Every molecule carries a variable number of atoms, each described by a
// fixed-width local descriptor. A batch is packed into one zero-filled arena
// (molecule × atom slot × component) plus a vector of true atom counts; the
// counts, never the padding values, bound every loop.
//
// For each sigma in order the engine returns an nm1×nm2 *matrix.Dense:
//
//	K_s[i][j] = Σ_{a<n1[i]} Σ_{b<n2[j]} exp(-c_s · dist(x1[i][a], x2[j][b]))
//
// with dist and c_s as in package kernel (L1 and 1/σ for Laplacian, squared
// L2 and 1/(2σ²) for Gaussian). WithReduction(Mean) divides by n1[i]·n2[j].
//
// Entry points:
//
//   - GetAtomicKernelsLaplacian / GetAtomicKernelsGaussianPadded take
//     pre-padded tensors and count vectors.
//   - GetAtomicKernelsGaussian / GetAtomicKernelsLaplacianMolecules take
//     Molecule values and pad them.
//   - NewBatch, BatchFromTensor and Compute expose the steps separately, so
//     a batch can be packed once and evaluated against many others.
//
// All validation (counts, widths, sigmas, byte budget) happens before the
// arenas and outputs are allocated. Errors satisfy
// errors.Is(err, kernel.ErrInvalidInput) or errors.Is(err, kernel.ErrAllocation).
package atomkernel
