// SPDX-License-Identifier: MIT
// Package atomkernel - padded molecule batches.
//
// A Batch is an arena plus a length vector: one zero-filled Tensor3 sized
// nmol × amax × width and the true atom count of every molecule. Padding
// slots are never read by the engine; every loop is bounded by counts.

package atomkernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/katalvlaran/lvkernel/workerpool"
)

const (
	opNewBatch        = "NewBatch"
	opBatchFromTensor = "BatchFromTensor"
)

// Batch is a padded, ragged collection of per-atom descriptors.
type Batch struct {
	data   *matrix.Tensor3
	counts []int
	layout TensorLayout
}

// Len returns the number of molecules.
func (b *Batch) Len() int { return len(b.counts) }

// MaxAtoms returns the padded atom capacity per molecule.
func (b *Batch) MaxAtoms() int {
	_, amax, _ := b.data.Dims()
	return amax
}

// Width returns the descriptor width.
func (b *Batch) Width() int {
	d0, _, d2 := b.data.Dims()
	if b.layout == CompAtomMol {
		return d0
	}
	return d2
}

// Counts returns a copy of the per-molecule atom counts.
func (b *Batch) Counts() []int { return append([]int(nil), b.counts...) }

// Layout reports the current storage order.
func (b *Batch) Layout() TensorLayout { return b.layout }

// Tensor exposes the backing buffer (no copy).
func (b *Batch) Tensor() *matrix.Tensor3 { return b.data }

// At returns component c of atom a in molecule m regardless of storage order.
// Padding slots read as zero.
func (b *Batch) At(m, a, c int) (float64, error) {
	if b.layout == CompAtomMol {
		return b.data.At(c, a, m)
	}
	return b.data.At(m, a, c)
}

// Reorder converts the batch in place to MolAtomComp, the order in which the
// components of one atom are contiguous. Values read through At are
// unchanged. Reorder is a no-op on an already canonical batch.
func (b *Batch) Reorder() *Batch {
	if b.layout == CompAtomMol {
		b.data = b.data.SwapAxes02()
		b.layout = MolAtomComp
	}

	return b
}

// canonical returns b when it is MolAtomComp, else a reordered copy, leaving
// b untouched so concurrent readers are safe.
func (b *Batch) canonical() *Batch {
	if b.layout == MolAtomComp {
		return b
	}

	return &Batch{data: b.data.SwapAxes02(), counts: b.counts, layout: MolAtomComp}
}

// atom returns the descriptor of atom a in molecule m of a canonical batch.
func (b *Batch) atom(m, a int) []float64 { return b.data.Fiber(m, a) }

// totalAtoms sums the counts.
func (b *Batch) totalAtoms() int {
	n := 0
	for _, c := range b.counts {
		n += c
	}
	return n
}

// validateFinite scans the valid atom rows of a canonical batch.
func (b *Batch) validateFinite() error {
	for m, n := range b.counts {
		for a := 0; a < n; a++ {
			for c, v := range b.atom(m, a) {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: molecule %d atom %d component %d", kernel.ErrNonFinite, m, a, c)
				}
			}
		}
	}

	return nil
}

// BatchFromTensor wraps a pre-padded tensor (no copy) with its atom counts.
// In MolAtomComp order x is (nmol, amax, width); in CompAtomMol it is
// (width, amax, nmol).
//
// Errors: kernel.ErrNilInput, ErrAtomCount (len(counts) != nmol, a count < 0
// or > amax).
func BatchFromTensor(x *matrix.Tensor3, counts []int, layout TensorLayout) (*Batch, error) {
	if x == nil || counts == nil {
		return nil, atomErrorf(opBatchFromTensor, kernel.ErrNilInput, nil)
	}
	if layout != MolAtomComp && layout != CompAtomMol {
		return nil, fmt.Errorf("%s: %w: unknown layout %d", opBatchFromTensor, kernel.ErrInvalidInput, int(layout))
	}

	d0, amax, d2 := x.Dims()
	nmol := d0
	if layout == CompAtomMol {
		nmol = d2
	}
	if len(counts) != nmol {
		return nil, atomErrorf(opBatchFromTensor, ErrAtomCount,
			fmt.Errorf("%d counts for %d molecules", len(counts), nmol))
	}
	for m, n := range counts {
		if n < 0 || n > amax {
			return nil, atomErrorf(opBatchFromTensor, ErrAtomCount,
				fmt.Errorf("molecule %d: count %d outside [0,%d]", m, n, amax))
		}
	}

	return &Batch{data: x, counts: append([]int(nil), counts...), layout: layout}, nil
}

// NewBatch pads mols into a canonical Batch: counts and descriptors are
// collected (concurrently), widths checked and the byte budget enforced
// before the arena is allocated, then rows 0..AtomCount-1 of every molecule
// are copied into its slab.
//
// Errors: kernel.ErrNilInput, ErrAtomCount, ErrWidthMismatch,
// kernel.ErrNonFinite, kernel.ErrAllocation, or a wrapped LocalDescriptors error.
func NewBatch(mols []Molecule, opts ...Option) (*Batch, error) {
	o := GatherOptions(opts...)
	p, err := collect(mols, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewBatch, err)
	}
	size, err := p.size()
	if err != nil {
		return nil, atomErrorf(opNewBatch, kernel.ErrAllocation, err)
	}
	if err = checkBudget(o.MaxBytes, size); err != nil {
		return nil, atomErrorf(opNewBatch, kernel.ErrAllocation, err)
	}

	b, err := p.pack(o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewBatch, err)
	}

	return b, nil
}

// plan is a collected but not yet packed molecule batch.
type plan struct {
	counts []int
	descs  []matrix.Matrix
	amax   int
	width  int
}

// collect reads atom counts and descriptors and validates their shapes.
func collect(mols []Molecule, o Options) (*plan, error) {
	if mols == nil {
		return nil, kernel.ErrNilInput
	}
	p := &plan{counts: make([]int, len(mols)), descs: make([]matrix.Matrix, len(mols)), width: -1}
	for i, m := range mols {
		if m == nil {
			return nil, fmt.Errorf("molecule %d: %w", i, kernel.ErrNilInput)
		}
		n := m.AtomCount()
		if n < 0 {
			return nil, fmt.Errorf("molecule %d: count %d: %w", i, n, ErrAtomCount)
		}
		p.counts[i] = n
		p.amax = max(p.amax, n)
	}

	err := workerpool.Go(len(mols), o.Workers, func(i int) error {
		if p.counts[i] == 0 {
			return nil
		}
		d, err := mols[i].LocalDescriptors()
		if err != nil {
			return fmt.Errorf("molecule %d: %w", i, err)
		}
		p.descs[i] = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, d := range p.descs {
		n := p.counts[i]
		if n == 0 {
			continue
		}
		if matrix.ValidateNotNil(d) != nil || d.Rows() < n {
			rows := 0
			if matrix.ValidateNotNil(d) == nil {
				rows = d.Rows()
			}
			return nil, fmt.Errorf("molecule %d: %d descriptor rows for %d atoms: %w", i, rows, n, ErrAtomCount)
		}
		if p.width < 0 {
			p.width = d.Cols()
		} else if d.Cols() != p.width {
			return nil, fmt.Errorf("molecule %d: width %d, want %d: %w", i, d.Cols(), p.width, ErrWidthMismatch)
		}
	}
	if p.width < 0 {
		p.width = 0
	}

	return p, nil
}

// size returns the arena element count.
func (p *plan) size() (int, error) {
	return matrix.CheckedSize(len(p.counts), p.amax, p.width)
}

// pack allocates the arena and copies each molecule into its own slab.
func (p *plan) pack(o Options) (*Batch, error) {
	t, err := matrix.NewTensor3(len(p.counts), p.amax, p.width)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kernel.ErrAllocation, err)
	}

	err = workerpool.Go(len(p.counts), o.Workers, func(m int) error {
		n := p.counts[m]
		if n == 0 {
			return nil
		}
		dense, isDense := p.descs[m].(*matrix.Dense)
		for a := 0; a < n; a++ {
			dst := t.Fiber(m, a)
			if isDense {
				row, err := dense.RawRow(a)
				if err != nil {
					return fmt.Errorf("molecule %d: %w", m, err)
				}
				copy(dst, row)
			} else {
				for c := range dst {
					v, err := p.descs[m].At(a, c)
					if err != nil {
						return fmt.Errorf("molecule %d: %w", m, err)
					}
					dst[c] = v
				}
			}
			if o.ValidateFinite {
				for c, v := range dst {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return fmt.Errorf("molecule %d atom %d component %d: %w", m, a, c, kernel.ErrNonFinite)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Batch{data: t, counts: p.counts, layout: MolAtomComp}, nil
}

// checkBudget compares a float64 element count with the byte budget.
func checkBudget(maxBytes int64, elems ...int) error {
	var total int64
	for _, n := range elems {
		if int64(n) > math.MaxInt64/8-total {
			return errors.New("element count overflows int64")
		}
		total += int64(n)
	}
	if total*8 > maxBytes {
		return fmt.Errorf("need %d bytes, budget %d", total*8, maxBytes)
	}

	return nil
}
