// SPDX-License-Identifier: MIT

package builder_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/builder"
	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDescriptors_Deterministic locks output to the seed.
func TestDescriptors_Deterministic(t *testing.T) {
	a, err := builder.Descriptors(5, 3, builder.WithSeed(42))
	require.NoError(t, err)
	b, err := builder.Descriptors(5, 3, builder.WithSeed(42))
	require.NoError(t, err)
	c, err := builder.Descriptors(5, 3, builder.WithSeed(43))
	require.NoError(t, err)

	assert.Equal(t, 5, a.Rows())
	assert.Equal(t, 3, a.Cols())
	assert.Equal(t, a.Data(), b.Data())
	assert.NotEqual(t, a.Data(), c.Data())
	for _, v := range a.Data() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 10.0)
	}
}

// TestDescriptorRows_MatchesDense draws the same stream through both entry points.
func TestDescriptorRows_MatchesDense(t *testing.T) {
	rows, err := builder.DescriptorRows(4, 6, builder.WithSeed(1), builder.WithNormalValues(0, 1))
	require.NoError(t, err)
	d, err := builder.Descriptors(4, 6, builder.WithSeed(1), builder.WithNormalValues(0, 1))
	require.NoError(t, err)
	assert.Equal(t, d.ToRows(), rows)
}

// TestMolecules_ShapesAndNames checks ranges, widths and naming.
func TestMolecules_ShapesAndNames(t *testing.T) {
	mols, err := builder.Molecules(20, 4, builder.WithSeed(7), builder.WithAtomRange(0, 5))
	require.NoError(t, err)
	require.Len(t, mols, 20)

	for i, m := range mols {
		assert.Equal(t, builder.SymbolNumberIDFn("mol")(i), m.Name)
		assert.GreaterOrEqual(t, m.AtomCount(), 0)
		assert.LessOrEqual(t, m.AtomCount(), 5)
		d, err := m.LocalDescriptors()
		require.NoError(t, err)
		if m.AtomCount() == 0 {
			assert.Nil(t, d)
			assert.Empty(t, m.Rows())
			continue
		}
		assert.Equal(t, 4, d.Cols())
		assert.Equal(t, 4, m.Width())
		assert.Len(t, m.Rows(), m.AtomCount())
	}

	empty, err := builder.Molecules(3, 4, builder.WithSeed(7), builder.WithAtomRange(0, 0))
	require.NoError(t, err)
	for _, m := range empty {
		assert.Zero(t, m.AtomCount())
	}
}

// TestMolecules_FeedAtomicEngine wires generated molecules into the engine.
func TestMolecules_FeedAtomicEngine(t *testing.T) {
	mols, err := builder.Molecules(6, 5, builder.WithSeed(3), builder.WithAtomRange(1, 4),
		builder.WithExcelColumnIDs(), builder.WithRepeatedAtoms(0.5, 0.01))
	require.NoError(t, err)
	assert.Equal(t, "A", mols[0].Name)

	res, err := atomkernel.GetAtomicKernelsGaussian(builder.AsMolecules(mols), builder.AsMolecules(mols), []float64{2})
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(res[0]))
}

// TestRepeatedAtoms produces exact copies when noise is zero and p is one.
func TestRepeatedAtoms(t *testing.T) {
	mols, err := builder.Molecules(1, 3, builder.WithSeed(9), builder.WithAtomRange(4, 4), builder.WithRepeatedAtoms(1, 0))
	require.NoError(t, err)
	rows := mols[0].Rows()
	for i := 1; i < len(rows); i++ {
		assert.Equal(t, rows[0], rows[i])
	}
}

// TestSharedRand continues a single stream across calls.
func TestSharedRand(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a, err := builder.Descriptors(2, 2, builder.WithRand(rng))
	require.NoError(t, err)
	b, err := builder.Descriptors(2, 2, builder.WithRand(rng))
	require.NoError(t, err)
	assert.NotEqual(t, a.Data(), b.Data())
}

// TestNewMolecule covers explicit construction.
func TestNewMolecule(t *testing.T) {
	m, err := builder.NewMolecule("h2", [][]float64{{0, 1}, {1, 0}})
	require.NoError(t, err)
	assert.Equal(t, 2, m.AtomCount())

	k, err := kernel.GaussianRows(m.Rows(), m.Rows(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, k.Rows())

	empty, err := builder.NewMolecule("void", nil)
	require.NoError(t, err)
	assert.Zero(t, empty.AtomCount())
	assert.Zero(t, empty.Width())

	_, err = builder.NewMolecule("bad", [][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrRaggedRows)
}

// TestErrors covers sizes and the missing RNG.
func TestErrors(t *testing.T) {
	_, err := builder.Descriptors(-1, 2, builder.WithSeed(1))
	require.ErrorIs(t, err, builder.ErrBadSize)
	_, err = builder.DescriptorRows(1, -2, builder.WithSeed(1))
	require.ErrorIs(t, err, builder.ErrBadSize)
	_, err = builder.Molecules(-3, 2, builder.WithSeed(1))
	require.ErrorIs(t, err, builder.ErrBadSize)

	_, err = builder.Molecules(3, 2)
	require.ErrorIs(t, err, builder.ErrNeedRandSource)
	_, err = builder.Descriptors(3, 2)
	require.ErrorIs(t, err, builder.ErrNeedRandSource)
}

// TestOptionPanics documents programmer-error panics.
func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithValueFn(nil) })
	assert.Panics(t, func() { builder.WithIDScheme(nil) })
	assert.Panics(t, func() { builder.WithAtomRange(3, 2) })
	assert.Panics(t, func() { builder.WithAtomRange(-1, 2) })
	assert.Panics(t, func() { builder.WithRepeatedAtoms(1.5, 0) })
	assert.Panics(t, func() { builder.WithRepeatedAtoms(0.5, -1) })
}
