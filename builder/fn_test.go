// SPDX-License-Identifier: MIT

package builder_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvkernel/builder"
	"github.com/stretchr/testify/assert"
)

// TestIDFns verifies naming schemes and their panics.
func TestIDFns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fn          builder.IDFn
		input       int
		want        string
		shouldPanic bool
	}{
		{"DefaultIDFn_zero", builder.DefaultIDFn, 0, "0", false},
		{"DefaultIDFn_multi", builder.DefaultIDFn, 123, "123", false},
		{"SymbolNumber_mol", builder.SymbolNumberIDFn("mol"), 7, "mol7", false},
		{"SymbolNumber_neg", builder.SymbolNumberIDFn("mol"), -1, "", true},
		{"Excel_A", builder.ExcelColumnIDFn, 0, "A", false},
		{"Excel_Z", builder.ExcelColumnIDFn, 25, "Z", false},
		{"Excel_AA", builder.ExcelColumnIDFn, 26, "AA", false},
		{"Excel_neg", builder.ExcelColumnIDFn, -1, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.shouldPanic {
				assert.Panics(t, func() { tc.fn(tc.input) })
				return
			}
			assert.Equal(t, tc.want, tc.fn(tc.input))
		})
	}
}

// TestValueFns checks ranges, nil-RNG fallbacks and constructor panics.
func TestValueFns(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(11))

	assert.Equal(t, 2.5, builder.ConstantValueFn(2.5)(rng))

	uni := builder.UniformValueFn(-1, 1)
	for range 100 {
		v := uni(rng)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
	assert.Equal(t, -1.0, uni(nil))
	assert.Equal(t, 3.0, builder.UniformValueFn(3, 3)(rng))

	assert.Equal(t, 4.0, builder.NormalValueFn(4, 2)(nil))
	assert.Equal(t, 4.0, builder.NormalValueFn(4, 0)(rng))

	assert.Panics(t, func() { builder.ConstantValueFn(math.NaN()) })
	assert.Panics(t, func() { builder.UniformValueFn(2, 1) })
	assert.Panics(t, func() { builder.UniformValueFn(0, math.Inf(1)) })
	assert.Panics(t, func() { builder.NormalValueFn(0, -1) })
}
