// SPDX-License-Identifier: MIT

package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWorkSize_Saturates keeps huge calls on the parallel path.
func TestWorkSize_Saturates(t *testing.T) {
	assert.Equal(t, 12, workSize(2, 3, 2))
	assert.Equal(t, 6, workSize(2, 3, 0))
	assert.Equal(t, 0, workSize(0, 3, 4))

	huge := workSize(math.MaxInt32, math.MaxInt32, 1<<10)
	assert.Equal(t, math.MaxInt32, huge)
	assert.GreaterOrEqual(t, huge, parallelThreshold)
}
