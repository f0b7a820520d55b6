// SPDX-License-Identifier: MIT

package atomkernel

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
)

// Molecule is what the engine needs from a descriptor-producing collaborator.
//
// LocalDescriptors returns one row per atom and one column per descriptor
// component. At least AtomCount rows must be present; extra rows are ignored.
// A zero-atom molecule may return nil. NewBatch calls LocalDescriptors on
// different molecules concurrently.
type Molecule interface {
	AtomCount() int
	LocalDescriptors() (matrix.Matrix, error)
}

// TensorLayout names the axis order of a padded tensor.
type TensorLayout int

const (
	// MolAtomComp is (molecule, atom slot, component) with components
	// contiguous. It is the canonical layout the engine evaluates.
	MolAtomComp TensorLayout = iota
	// CompAtomMol is (component, atom slot, molecule), the axis-swapped
	// order produced by Fortran-style pipelines.
	CompAtomMol
)

// String returns the axis order.
func (l TensorLayout) String() string {
	switch l {
	case MolAtomComp:
		return "mol-atom-comp"
	case CompAtomMol:
		return "comp-atom-mol"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// Reduction selects how atom-pair kernel values become a molecule-pair entry.
type Reduction int

const (
	// Sum adds every atom-pair kernel value.
	Sum Reduction = iota
	// Mean divides the sum by n1*n2 (0 when either molecule has no atoms).
	Mean
)

// String returns "sum" or "mean".
func (r Reduction) String() string {
	switch r {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	default:
		return fmt.Sprintf("reduction(%d)", int(r))
	}
}

// ParseReduction maps "sum"/"mean" (case-insensitive) to a Reduction.
func ParseReduction(s string) (Reduction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return Sum, nil
	case "mean":
		return Mean, nil
	default:
		return 0, fmt.Errorf("%w: unknown reduction %q", kernel.ErrInvalidInput, s)
	}
}
