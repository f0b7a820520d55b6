// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvkernel/matrix"
)

func benchRows(n, d int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, d)
		for j := range rows[i] {
			rows[i][j] = float64(i*d + j)
		}
	}
	return rows
}

func BenchmarkFromRows_1000x64(b *testing.B) {
	rows := benchRows(1000, 64)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := matrix.FromRows(rows); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTranspose_1000x64(b *testing.B) {
	m, _ := matrix.FromRows(benchRows(1000, 64))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := matrix.Transpose(m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSwapAxes02_64x32x16(b *testing.B) {
	x, _ := matrix.NewTensor3(64, 32, 16)
	b.ReportAllocs()
	for b.Loop() {
		_ = x.SwapAxes02()
	}
}
