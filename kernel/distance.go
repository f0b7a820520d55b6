// SPDX-License-Identifier: MIT
// Package kernel - distance primitives.
//
// The inner loops use independent accumulators so the compiler can keep
// several FP add chains in flight. The unroll width is chosen once at init
// from the host CPU features (golang.org/x/sys/cpu): wide vector units get
// eight accumulators, everything else gets four, and a scalar loop handles
// tails. The chosen width is reported by DispatchLevel for diagnostics.
//
// Summation order depends only on the vector length and the dispatch level,
// never on the caller, so Distance(x,y) and Distance(y,x) are bit-identical.

package kernel

import (
	"math"

	"golang.org/x/sys/cpu"
)

// dispatch level names reported by DispatchLevel.
const (
	levelWide   = "unroll8"
	levelNarrow = "unroll4"
)

var (
	l1Impl    func(x, y []float64) float64
	sqL2Impl  func(x, y []float64) float64
	levelName string
)

func init() {
	if cpu.X86.HasAVX2 || cpu.X86.HasAVX512F || cpu.ARM64.HasSVE {
		l1Impl, sqL2Impl, levelName = l1Unroll8, sqL2Unroll8, levelWide
		return
	}
	l1Impl, sqL2Impl, levelName = l1Unroll4, sqL2Unroll4, levelNarrow
}

// DispatchLevel names the distance loop variant selected for this CPU.
func DispatchLevel() string { return levelName }

// L1Distance returns Σ|x[k]-y[k]| over the common prefix of x and y.
// Callers are expected to pass equal-length vectors.
func L1Distance(x, y []float64) float64 {
	n := min(len(x), len(y))
	return l1Impl(x[:n], y[:n])
}

// SquaredL2Distance returns Σ(x[k]-y[k])² over the common prefix of x and y.
func SquaredL2Distance(x, y []float64) float64 {
	n := min(len(x), len(y))
	return sqL2Impl(x[:n], y[:n])
}

func l1Unroll4(x, y []float64) float64 {
	n := len(x)
	y = y[:n]
	var s0, s1, s2, s3 float64
	k := 0
	for ; k+4 <= n; k += 4 {
		s0 += math.Abs(x[k] - y[k])
		s1 += math.Abs(x[k+1] - y[k+1])
		s2 += math.Abs(x[k+2] - y[k+2])
		s3 += math.Abs(x[k+3] - y[k+3])
	}
	for ; k < n; k++ {
		s0 += math.Abs(x[k] - y[k])
	}

	return (s0 + s1) + (s2 + s3)
}

func sqL2Unroll4(x, y []float64) float64 {
	n := len(x)
	y = y[:n]
	var s0, s1, s2, s3 float64
	k := 0
	for ; k+4 <= n; k += 4 {
		d0 := x[k] - y[k]
		d1 := x[k+1] - y[k+1]
		d2 := x[k+2] - y[k+2]
		d3 := x[k+3] - y[k+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; k < n; k++ {
		d := x[k] - y[k]
		s0 += d * d
	}

	return (s0 + s1) + (s2 + s3)
}

func l1Unroll8(x, y []float64) float64 {
	n := len(x)
	y = y[:n]
	var s0, s1, s2, s3, s4, s5, s6, s7 float64
	k := 0
	for ; k+8 <= n; k += 8 {
		s0 += math.Abs(x[k] - y[k])
		s1 += math.Abs(x[k+1] - y[k+1])
		s2 += math.Abs(x[k+2] - y[k+2])
		s3 += math.Abs(x[k+3] - y[k+3])
		s4 += math.Abs(x[k+4] - y[k+4])
		s5 += math.Abs(x[k+5] - y[k+5])
		s6 += math.Abs(x[k+6] - y[k+6])
		s7 += math.Abs(x[k+7] - y[k+7])
	}
	for ; k < n; k++ {
		s0 += math.Abs(x[k] - y[k])
	}

	return ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
}

func sqL2Unroll8(x, y []float64) float64 {
	n := len(x)
	y = y[:n]
	var s0, s1, s2, s3, s4, s5, s6, s7 float64
	k := 0
	for ; k+8 <= n; k += 8 {
		d0 := x[k] - y[k]
		d1 := x[k+1] - y[k+1]
		d2 := x[k+2] - y[k+2]
		d3 := x[k+3] - y[k+3]
		d4 := x[k+4] - y[k+4]
		d5 := x[k+5] - y[k+5]
		d6 := x[k+6] - y[k+6]
		d7 := x[k+7] - y[k+7]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
		s4 += d4 * d4
		s5 += d5 * d5
		s6 += d6 * d6
		s7 += d7 * d7
	}
	for ; k < n; k++ {
		d := x[k] - y[k]
		s0 += d * d
	}

	return ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
}
