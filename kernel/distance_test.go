// SPDX-License-Identifier: MIT

package kernel_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// TestDistances_AllTailLengths exercises unrolled bodies and scalar tails.
func TestDistances_AllTailLengths(t *testing.T) {
	for d := 0; d <= 19; d++ {
		rows := randomRows(int64(100+d), 2, d)
		x, y := rows[0], rows[1]

		l1 := kernel.L1Distance(x, y)
		l2 := kernel.SquaredL2Distance(x, y)
		if d == 0 {
			assert.Zero(t, l1)
			assert.Zero(t, l2)
			continue
		}
		want := floats.Distance(x, y, 2)
		assert.InDeltaf(t, floats.Distance(x, y, 1), l1, 1e-12, "L1 d=%d", d)
		assert.InDeltaf(t, want*want, l2, 1e-12, "L2² d=%d", d)
	}
}

// TestDistances_ArgumentOrder must be bit-identical.
func TestDistances_ArgumentOrder(t *testing.T) {
	rows := randomRows(200, 2, 37)
	assert.Equal(t, kernel.L1Distance(rows[0], rows[1]), kernel.L1Distance(rows[1], rows[0]))
	assert.Equal(t, kernel.SquaredL2Distance(rows[0], rows[1]), kernel.SquaredL2Distance(rows[1], rows[0]))
}

// TestMetricHelpers checks Distance, Coefficient and Transform agree with the closed forms.
func TestMetricHelpers(t *testing.T) {
	x, y := []float64{0, 0}, []float64{1, 1}

	assert.InDelta(t, 2.0, kernel.MetricLaplacian.Distance(x, y), 0)
	assert.InDelta(t, 2.0, kernel.MetricGaussian.Distance(x, y), 0)
	assert.InDelta(t, math.Exp(-2), kernel.MetricLaplacian.Transform(2, 1), tol)
	assert.InDelta(t, math.Exp(-1), kernel.MetricGaussian.Transform(2, 1), tol)
	assert.InDelta(t, 0.125, kernel.MetricGaussian.Coefficient(2), 0)

	require.NoError(t, kernel.ValidateSigmas([]float64{0.1, 1, 10}))
	err := kernel.ValidateSigmas([]float64{1, -2})
	require.ErrorIs(t, err, kernel.ErrInvalidSigma)
	assert.Contains(t, err.Error(), "sigmas[1]")

	assert.Contains(t, []string{"unroll4", "unroll8"}, kernel.DispatchLevel())
}
