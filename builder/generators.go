// SPDX-License-Identifier: MIT
// Package: lvkernel/builder
//
// generators.go: descriptor collections and ragged molecule batches.
//
// Contract:
//   • Strict determinism per (sizes, seed, options); no global state.
//   • RNG draw order is fixed: for Molecules, the atom count of molecule i is
//     drawn before its descriptor values, molecule by molecule.
//   • O(total values) time and memory.

package builder

import (
	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/matrix"
)

// Generator names used in error prefixes.
const (
	MethodDescriptors    = "Descriptors"
	MethodDescriptorRows = "DescriptorRows"
	MethodMolecules      = "Molecules"
	MethodNewMolecule    = "NewMolecule"
)

// Molecule is a named synthetic molecule holding one descriptor row per atom.
// It implements atomkernel.Molecule.
type Molecule struct {
	Name string
	desc *matrix.Dense
}

var _ atomkernel.Molecule = (*Molecule)(nil)

// NewMolecule copies rows (one per atom) into a Molecule. Ragged rows fail
// with matrix.ErrRaggedRows; an empty slice is a zero-atom molecule.
func NewMolecule(name string, rows [][]float64) (*Molecule, error) {
	if len(rows) == 0 {
		return &Molecule{Name: name}, nil
	}
	d, err := matrix.FromRows(rows)
	if err != nil {
		return nil, builderErrorf(MethodNewMolecule, err, "molecule %q", name)
	}

	return &Molecule{Name: name, desc: d}, nil
}

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int {
	if m.desc == nil {
		return 0
	}
	return m.desc.Rows()
}

// Width returns the descriptor width (0 for a zero-atom molecule).
func (m *Molecule) Width() int {
	if m.desc == nil {
		return 0
	}
	return m.desc.Cols()
}

// LocalDescriptors returns the atom × component matrix (nil for no atoms).
func (m *Molecule) LocalDescriptors() (matrix.Matrix, error) {
	if m.desc == nil {
		return nil, nil
	}
	return m.desc, nil
}

// Rows returns a copy of the descriptor rows.
func (m *Molecule) Rows() [][]float64 {
	if m.desc == nil {
		return [][]float64{}
	}
	return m.desc.ToRows()
}

// AsMolecules converts a generated batch to the engine's interface slice.
func AsMolecules(ms []*Molecule) []atomkernel.Molecule {
	out := make([]atomkernel.Molecule, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

// DescriptorRows returns n descriptors of the given width drawn from the
// configured ValueFn.
//
// Errors: ErrBadSize (n < 0 or width < 0), ErrNeedRandSource (no seed/RNG).
func DescriptorRows(n, width int, opts ...BuilderOption) ([][]float64, error) {
	cfg := newBuilderConfig(opts...)
	if err := validateSizes(MethodDescriptorRows, n, width); err != nil {
		return nil, err
	}
	if cfg.rng == nil {
		return nil, builderErrorf(MethodDescriptorRows, ErrNeedRandSource, "use WithSeed or WithRand")
	}

	return fillRows(cfg, n, width), nil
}

// Descriptors is DescriptorRows packed into an n×width *matrix.Dense.
func Descriptors(n, width int, opts ...BuilderOption) (*matrix.Dense, error) {
	cfg := newBuilderConfig(opts...)
	if err := validateSizes(MethodDescriptors, n, width); err != nil {
		return nil, err
	}
	if cfg.rng == nil {
		return nil, builderErrorf(MethodDescriptors, ErrNeedRandSource, "use WithSeed or WithRand")
	}

	d, err := matrix.NewDenseAllowEmpty(n, width)
	if err != nil {
		return nil, builderErrorf(MethodDescriptors, ErrBadSize, "%d×%d: %v", n, width, err)
	}
	data := d.Data()
	for i := range data {
		data[i] = cfg.valueFn(cfg.rng)
	}

	return d, nil
}

// Molecules returns nmol molecules whose atom counts are drawn uniformly from
// the configured range (WithAtomRange) and whose descriptors all share width.
// Names come from the IDFn (default "mol0", "mol1", ...).
//
// Errors: ErrBadSize, ErrNeedRandSource.
func Molecules(nmol, width int, opts ...BuilderOption) ([]*Molecule, error) {
	cfg := newBuilderConfig(opts...)
	if err := validateSizes(MethodMolecules, nmol, width); err != nil {
		return nil, err
	}
	if cfg.rng == nil {
		return nil, builderErrorf(MethodMolecules, ErrNeedRandSource, "use WithSeed or WithRand")
	}

	mols := make([]*Molecule, nmol)
	for i := range mols {
		atoms := cfg.minAtoms
		if span := cfg.maxAtoms - cfg.minAtoms; span > 0 {
			atoms += cfg.rng.Intn(span + 1)
		}
		m := &Molecule{Name: cfg.idFn(i)}
		if atoms > 0 {
			d, err := matrix.FromRows(fillRows(cfg, atoms, width))
			if err != nil {
				return nil, builderErrorf(MethodMolecules, ErrBadSize, "molecule %d: %v", i, err)
			}
			m.desc = d
		}
		mols[i] = m
	}

	return mols, nil
}

// fillRows draws n×width values; with repeated atoms enabled a row may copy
// its predecessor plus Gaussian jitter.
func fillRows(cfg builderConfig, n, width int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, width)
		if i > 0 && cfg.repeatP > 0 && cfg.rng.Float64() < cfg.repeatP {
			for c := range row {
				row[c] = rows[i-1][c] + cfg.rng.NormFloat64()*cfg.noise
			}
		} else {
			for c := range row {
				row[c] = cfg.valueFn(cfg.rng)
			}
		}
		rows[i] = row
	}

	return rows
}

func validateSizes(method string, n, width int) error {
	if n < 0 {
		return builderErrorf(method, ErrBadSize, "count must be ≥ 0, got %d", n)
	}
	if width < 0 {
		return builderErrorf(method, ErrBadSize, "width must be ≥ 0, got %d", width)
	}
	return nil
}
