// SPDX-License-Identifier: MIT

package atomkernel

import (
	"fmt"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
)

const (
	opLaplacianPadded    = "GetAtomicKernelsLaplacian"
	opGaussianPadded     = "GetAtomicKernelsGaussianPadded"
	opGaussianMolecules  = "GetAtomicKernelsGaussian"
	opLaplacianMolecules = "GetAtomicKernelsLaplacianMolecules"
	opCompute            = "Compute"
)

// GetAtomicKernelsLaplacian evaluates Laplacian atomic kernels over
// pre-padded tensors. n1 and n2 hold the true atom count of every molecule;
// the tensor axis order is MolAtomComp unless WithTensorLayout says otherwise.
// The result holds one len(n1)×len(n2) matrix per sigma, in sigma order.
func GetAtomicKernelsLaplacian(x1, x2 *matrix.Tensor3, n1, n2 []int, sigmas []float64, opts ...Option) ([]*matrix.Dense, error) {
	return fromTensors(opLaplacianPadded, kernel.MetricLaplacian, x1, x2, n1, n2, sigmas, GatherOptions(opts...))
}

// GetAtomicKernelsGaussianPadded is GetAtomicKernelsLaplacian with the
// Gaussian transform.
func GetAtomicKernelsGaussianPadded(x1, x2 *matrix.Tensor3, n1, n2 []int, sigmas []float64, opts ...Option) ([]*matrix.Dense, error) {
	return fromTensors(opGaussianPadded, kernel.MetricGaussian, x1, x2, n1, n2, sigmas, GatherOptions(opts...))
}

// GetAtomicKernelsGaussian pads both molecule collections and evaluates
// Gaussian atomic kernels, one len(mols1)×len(mols2) matrix per sigma.
// Molecule order is preserved on both axes.
func GetAtomicKernelsGaussian(mols1, mols2 []Molecule, sigmas []float64, opts ...Option) ([]*matrix.Dense, error) {
	return fromMolecules(opGaussianMolecules, kernel.MetricGaussian, mols1, mols2, sigmas, GatherOptions(opts...))
}

// GetAtomicKernelsLaplacianMolecules is GetAtomicKernelsGaussian with the
// Laplacian transform.
func GetAtomicKernelsLaplacianMolecules(mols1, mols2 []Molecule, sigmas []float64, opts ...Option) ([]*matrix.Dense, error) {
	return fromMolecules(opLaplacianMolecules, kernel.MetricLaplacian, mols1, mols2, sigmas, GatherOptions(opts...))
}

// Compute evaluates metric over two prepared batches. Passing the same
// *Batch twice yields a symmetric self-kernel. Batches are only read; a
// CompAtomMol batch is reordered into a private copy.
func Compute(metric kernel.Metric, b1, b2 *Batch, sigmas []float64, opts ...Option) ([]*matrix.Dense, error) {
	return computeBatches(opCompute, metric, b1, b2, sigmas, GatherOptions(opts...))
}

// validateSigmas rejects an empty list and any non-finite or non-positive value.
func validateSigmas(sigmas []float64) error {
	if len(sigmas) == 0 {
		return ErrNoSigmas
	}

	return kernel.ValidateSigmas(sigmas)
}

func fromTensors(op string, metric kernel.Metric, x1, x2 *matrix.Tensor3, n1, n2 []int, sigmas []float64, o Options) ([]*matrix.Dense, error) {
	b1, err := BatchFromTensor(x1, n1, o.TensorLayout)
	if err != nil {
		return nil, fmt.Errorf("%s: batch 1: %w", op, err)
	}
	b2 := b1
	if x2 != x1 || !equalCounts(n1, n2) {
		if b2, err = BatchFromTensor(x2, n2, o.TensorLayout); err != nil {
			return nil, fmt.Errorf("%s: batch 2: %w", op, err)
		}
	}

	return computeBatches(op, metric, b1, b2, sigmas, o)
}

func equalCounts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fromMolecules(op string, metric kernel.Metric, mols1, mols2 []Molecule, sigmas []float64, o Options) ([]*matrix.Dense, error) {
	if mols1 == nil || mols2 == nil {
		return nil, atomErrorf(op, kernel.ErrNilInput, nil)
	}
	if err := validateSigmas(sigmas); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p1, err := collect(mols1, o)
	if err != nil {
		return nil, fmt.Errorf("%s: batch 1: %w", op, err)
	}
	self := sameMolecules(mols1, mols2)
	p2 := p1
	if !self {
		if p2, err = collect(mols2, o); err != nil {
			return nil, fmt.Errorf("%s: batch 2: %w", op, err)
		}
	}
	if p1.width != p2.width && hasAtoms(p1.counts) && hasAtoms(p2.counts) {
		return nil, atomErrorf(op, ErrWidthMismatch, fmt.Errorf("batch 1 width %d, batch 2 width %d", p1.width, p2.width))
	}

	s1, err := p1.size()
	if err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}
	s2 := 0
	if !self {
		if s2, err = p2.size(); err != nil {
			return nil, atomErrorf(op, kernel.ErrAllocation, err)
		}
	}
	outs, err := matrix.CheckedSize(len(sigmas), len(mols1), len(mols2))
	if err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}
	if err = checkBudget(o.MaxBytes, s1, s2, outs); err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}

	b1, err := p1.pack(o)
	if err != nil {
		return nil, fmt.Errorf("%s: batch 1: %w", op, err)
	}
	b2 := b1
	if !self {
		if b2, err = p2.pack(o); err != nil {
			return nil, fmt.Errorf("%s: batch 2: %w", op, err)
		}
	}

	res, err := evaluate(metric, b1, b2, sigmas, self && o.SymmetryShortcut, o)
	if err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}

	return res, nil
}

// sameMolecules reports whether both collections share one backing array.
func sameMolecules(a, b []Molecule) bool {
	return len(a) > 0 && len(a) == len(b) && &a[0] == &b[0]
}

func hasAtoms(counts []int) bool {
	for _, n := range counts {
		if n > 0 {
			return true
		}
	}
	return false
}

func computeBatches(op string, metric kernel.Metric, b1, b2 *Batch, sigmas []float64, o Options) ([]*matrix.Dense, error) {
	if b1 == nil || b2 == nil {
		return nil, atomErrorf(op, kernel.ErrNilInput, nil)
	}
	if metric != kernel.MetricLaplacian && metric != kernel.MetricGaussian {
		return nil, fmt.Errorf("%s: %w: unknown metric %d", op, kernel.ErrInvalidInput, int(metric))
	}
	if err := validateSigmas(sigmas); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	self := b1 == b2
	if !self && b1.Width() != b2.Width() && b1.totalAtoms() > 0 && b2.totalAtoms() > 0 {
		return nil, atomErrorf(op, ErrWidthMismatch, fmt.Errorf("batch 1 width %d, batch 2 width %d", b1.Width(), b2.Width()))
	}

	outs, err := matrix.CheckedSize(len(sigmas), b1.Len(), b2.Len())
	if err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}
	elems := []int{outs}
	if b1.layout != MolAtomComp {
		elems = append(elems, b1.data.Len())
	}
	if !self && b2.layout != MolAtomComp {
		elems = append(elems, b2.data.Len())
	}
	if err = checkBudget(o.MaxBytes, elems...); err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}

	c1 := b1.canonical()
	c2 := c1
	if !self {
		c2 = b2.canonical()
	}
	if o.ValidateFinite {
		if err = c1.validateFinite(); err != nil {
			return nil, fmt.Errorf("%s: batch 1: %w", op, err)
		}
		if !self {
			if err = c2.validateFinite(); err != nil {
				return nil, fmt.Errorf("%s: batch 2: %w", op, err)
			}
		}
	}

	res, err := evaluate(metric, c1, c2, sigmas, self && o.SymmetryShortcut, o)
	if err != nil {
		return nil, atomErrorf(op, kernel.ErrAllocation, err)
	}

	return res, nil
}
