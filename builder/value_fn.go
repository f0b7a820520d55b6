// Package builder provides helper types for configuring descriptor value
// distributions in the generators.
package builder

import (
	"fmt"
	"math"
	"math/rand"
)

// ValueFn produces one descriptor component from the generator's RNG.
// It must be deterministic for a given RNG state.
type ValueFn func(rng *rand.Rand) float64

// ConstantValueFn always yields value. Panics if value is not finite.
func ConstantValueFn(value float64) ValueFn {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		panic(fmt.Sprintf("ConstantValueFn: value must be finite, got %g", value))
	}

	return func(_ *rand.Rand) float64 {
		return value
	}
}

// UniformValueFn samples uniformly in [lo, hi). Panics unless lo <= hi and
// both are finite. A nil rng yields lo.
func UniformValueFn(lo, hi float64) ValueFn {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi < lo {
		panic(fmt.Sprintf("UniformValueFn: require finite lo <= hi, got lo=%g, hi=%g", lo, hi))
	}

	return func(rng *rand.Rand) float64 {
		if rng == nil || hi == lo {
			return lo
		}
		return lo + rng.Float64()*(hi-lo)
	}
}

// NormalValueFn samples from N(mean, stddev). Panics if stddev < 0 or an
// argument is not finite. A nil rng yields mean.
func NormalValueFn(mean, stddev float64) ValueFn {
	if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(stddev) || math.IsInf(stddev, 0) || stddev < 0 {
		panic(fmt.Sprintf("NormalValueFn: require finite mean and stddev >= 0, got %g, %g", mean, stddev))
	}

	return func(rng *rand.Rand) float64 {
		if rng == nil {
			return mean
		}
		return mean + rng.NormFloat64()*stddev
	}
}
