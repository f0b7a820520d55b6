// SPDX-License-Identifier: MIT

package kernel_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/katalvlaran/lvkernel/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

const tol = 1e-9

// randomRows returns n descriptors of length d drawn from a fixed seed.
func randomRows(seed int64, n, d int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, d)
		for k := range rows[i] {
			rows[i][k] = rng.NormFloat64()
		}
	}

	return rows
}

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

func at(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// TestConcreteScenario pins the two-point example for both metrics.
func TestConcreteScenario(t *testing.T) {
	a := mustRows(t, [][]float64{{0, 0}, {1, 1}})
	b := mustRows(t, [][]float64{{0, 0}})

	lap, err := kernel.Laplacian(a, b, 1.0)
	require.NoError(t, err)
	require.Equal(t, 2, lap.Rows())
	require.Equal(t, 1, lap.Cols())
	assert.InDelta(t, 1.0, at(t, lap, 0, 0), tol)
	assert.InDelta(t, math.Exp(-2), at(t, lap, 1, 0), tol)

	gau, err := kernel.Gaussian(a, b, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, at(t, gau, 0, 0), tol)
	assert.InDelta(t, math.Exp(-1), at(t, gau, 1, 0), tol)
}

// TestAgainstGonumOracle checks every entry against distances computed by gonum.
func TestAgainstGonumOracle(t *testing.T) {
	ra := randomRows(1, 17, 13)
	rb := randomRows(2, 9, 13)
	a, b := mustRows(t, ra), mustRows(t, rb)
	sigma := 2.5

	lap, err := kernel.Laplacian(a, b, sigma)
	require.NoError(t, err)
	gau, err := kernel.Gaussian(a, b, sigma)
	require.NoError(t, err)

	for i := range ra {
		for j := range rb {
			l1 := floats.Distance(ra[i], rb[j], 1)
			l2 := floats.Distance(ra[i], rb[j], 2)
			assert.InDeltaf(t, math.Exp(-l1/sigma), at(t, lap, i, j), tol, "laplacian (%d,%d)", i, j)
			assert.InDeltaf(t, math.Exp(-l2*l2/(2*sigma*sigma)), at(t, gau, i, j), tol, "gaussian (%d,%d)", i, j)
		}
	}
}

// TestSelfKernel_DiagonalAndSymmetry covers the shortcut path and the full path.
func TestSelfKernel_DiagonalAndSymmetry(t *testing.T) {
	a := mustRows(t, randomRows(3, 40, 6))

	for _, opts := range [][]kernel.Option{
		nil,
		{kernel.WithNoSymmetryShortcut()},
		{kernel.WithWorkers(1)},
	} {
		for _, metric := range []kernel.Metric{kernel.MetricLaplacian, kernel.MetricGaussian} {
			k, err := kernel.Compute(metric, a, a, 0.7, opts...)
			require.NoError(t, err)
			for i := 0; i < k.Rows(); i++ {
				require.InDelta(t, 1.0, at(t, k, i, i), 0)
			}
			require.NoError(t, matrix.ValidateSymmetric(k, matrix.WithEpsilon(0)))
		}
	}
}

// TestShortcutMatchesFullEvaluation compares both self-kernel paths bit for bit.
func TestShortcutMatchesFullEvaluation(t *testing.T) {
	a := mustRows(t, randomRows(4, 64, 11))
	pool := workerpool.New(4)
	defer pool.Close()

	fast, err := kernel.Gaussian(a, a, 1.3, kernel.WithPool(pool))
	require.NoError(t, err)
	full, err := kernel.Gaussian(a, a, 1.3, kernel.WithPool(pool), kernel.WithNoSymmetryShortcut())
	require.NoError(t, err)
	assert.Equal(t, full.Data(), fast.Data())
}

// TestSwappedArgumentsTranspose verifies K(A,B)[i][j] == K(B,A)[j][i].
func TestSwappedArgumentsTranspose(t *testing.T) {
	a := mustRows(t, randomRows(5, 8, 4))
	b := mustRows(t, randomRows(6, 5, 4))

	ab, err := kernel.Laplacian(a, b, 3)
	require.NoError(t, err)
	ba, err := kernel.Laplacian(b, a, 3)
	require.NoError(t, err)

	baT, err := matrix.Transpose(ba)
	require.NoError(t, err)
	ok, err := matrix.AllClose(ab, baT, 0, tol)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestSigmaMonotonicity checks off-diagonal entries grow with sigma.
func TestSigmaMonotonicity(t *testing.T) {
	a := mustRows(t, randomRows(7, 6, 3))
	b := mustRows(t, randomRows(8, 6, 3))

	small, err := kernel.Gaussian(a, b, 0.5)
	require.NoError(t, err)
	large, err := kernel.Gaussian(a, b, 5)
	require.NoError(t, err)

	for idx, v := range small.Data() {
		assert.LessOrEqual(t, v, large.Data()[idx])
	}
}

// TestParallelMatchesSequential uses a job large enough to engage the pool.
func TestParallelMatchesSequential(t *testing.T) {
	a := mustRows(t, randomRows(9, 150, 24))
	b := mustRows(t, randomRows(10, 120, 24))

	seq, err := kernel.Laplacian(a, b, 4, kernel.WithWorkers(1))
	require.NoError(t, err)
	par, err := kernel.Laplacian(a, b, 4, kernel.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, seq.Data(), par.Data())
}

// TestColumnMajorLayout feeds the transposed collections and expects the same result.
func TestColumnMajorLayout(t *testing.T) {
	ra, rb := randomRows(11, 7, 5), randomRows(12, 3, 5)
	want, err := kernel.Gaussian(mustRows(t, ra), mustRows(t, rb), 2)
	require.NoError(t, err)

	ca, err := matrix.FromColumns(ra)
	require.NoError(t, err)
	cb, err := matrix.FromColumns(rb)
	require.NoError(t, err)
	require.Equal(t, 5, ca.Rows())

	got, err := kernel.Gaussian(ca, cb, 2, kernel.WithLayout(kernel.ColumnMajor))
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

// TestEmptyCollections yields degenerate shapes, not errors.
func TestEmptyCollections(t *testing.T) {
	b := mustRows(t, randomRows(13, 3, 4))
	empty, err := matrix.NewDenseAllowEmpty(0, 0)
	require.NoError(t, err)

	k, err := kernel.Laplacian(empty, b, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, k.Rows())
	assert.Equal(t, 3, k.Cols())

	k, err = kernel.Gaussian(b, empty, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, k.Rows())
	assert.Equal(t, 0, k.Cols())

	k, err = kernel.LaplacianRows([][]float64{}, [][]float64{{1, 2}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, k.Rows())
	assert.Equal(t, 1, k.Cols())
}

// TestErrors covers every rejected argument.
func TestErrors(t *testing.T) {
	five := mustRows(t, randomRows(14, 2, 5))
	three := mustRows(t, randomRows(15, 2, 3))

	_, err := kernel.Laplacian(five, three, 1)
	require.ErrorIs(t, err, kernel.ErrDimensionMismatch)
	require.ErrorIs(t, err, kernel.ErrInvalidInput)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = kernel.Gaussian(five, three, 1)
	require.ErrorIs(t, err, kernel.ErrInvalidInput)

	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = kernel.Laplacian(five, five, sigma)
		require.ErrorIs(t, err, kernel.ErrInvalidSigma)
		require.ErrorIs(t, err, kernel.ErrInvalidInput)
	}

	var nilDense *matrix.Dense
	_, err = kernel.Gaussian(nilDense, five, 1)
	require.ErrorIs(t, err, kernel.ErrNilInput)
	_, err = kernel.LaplacianRows(nil, [][]float64{{1}}, 1)
	require.ErrorIs(t, err, kernel.ErrNilInput)

	_, err = kernel.LaplacianRows([][]float64{{1, 2}, {3}}, [][]float64{{1, 2}}, 1)
	require.ErrorIs(t, err, kernel.ErrDimensionMismatch)
	require.ErrorIs(t, err, matrix.ErrRaggedRows)

	_, err = kernel.Compute(kernel.Metric(9), five, five, 1)
	require.ErrorIs(t, err, kernel.ErrInvalidInput)
}

// TestNonFinitePolicy rejects NaN by default and propagates it when disabled.
func TestNonFinitePolicy(t *testing.T) {
	a := [][]float64{{0, math.NaN()}}
	b := [][]float64{{0, 0}}

	_, err := kernel.GaussianRows(a, b, 1)
	require.ErrorIs(t, err, kernel.ErrNonFinite)

	k, err := kernel.GaussianRows(a, b, 1, kernel.WithValidateFinite(false))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(at(t, k, 0, 0)))
}

// TestAllocationBudget fails before allocating an oversized result.
func TestAllocationBudget(t *testing.T) {
	a := mustRows(t, randomRows(16, 100, 2))

	_, err := kernel.Laplacian(a, a, 1, kernel.WithMaxBytes(1024))
	require.ErrorIs(t, err, kernel.ErrAllocation)
	assert.NotErrorIs(t, err, kernel.ErrInvalidInput)

	_, err = kernel.Laplacian(a, a, 1, kernel.WithMaxBytes(100*100*8))
	require.NoError(t, err)
}

// TestOptionPanics documents programmer-error panics.
func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { kernel.WithWorkers(-1) })
	assert.Panics(t, func() { kernel.WithMaxBytes(0) })
	assert.Panics(t, func() { kernel.WithLayout(kernel.Layout(7)) })
}

// TestMetricMatchesEntryPoints checks that Compute with a Metric value agrees
// with the named entry points.
func TestMetricMatchesEntryPoints(t *testing.T) {
	a := mustRows(t, randomRows(21, 4, 3))
	b := mustRows(t, randomRows(22, 5, 3))

	lap, err := kernel.Laplacian(a, b, 1.5)
	require.NoError(t, err)
	viaLap, err := kernel.Compute(kernel.MetricLaplacian, a, b, 1.5)
	require.NoError(t, err)
	assert.Equal(t, lap.Data(), viaLap.Data())

	gau, err := kernel.Gaussian(a, b, 1.5)
	require.NoError(t, err)
	viaGau, err := kernel.Compute(kernel.MetricGaussian, a, b, 1.5)
	require.NoError(t, err)
	assert.Equal(t, gau.Data(), viaGau.Data())
	assert.NotEqual(t, lap.Data(), gau.Data())
}

// TestParseMetric round-trips the names.
func TestParseMetric(t *testing.T) {
	for _, m := range []kernel.Metric{kernel.MetricLaplacian, kernel.MetricGaussian} {
		got, err := kernel.ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := kernel.ParseMetric(" Gaussian ")
	require.NoError(t, err)
	assert.Equal(t, kernel.MetricGaussian, got)

	_, err = kernel.ParseMetric("cosine")
	require.ErrorIs(t, err, kernel.ErrInvalidInput)
}
