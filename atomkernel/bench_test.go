// SPDX-License-Identifier: MIT

package atomkernel_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/kernel"
)

func raggedMols(seed int64, nmol, maxAtoms, width int) []atomkernel.Molecule {
	rng := rand.New(rand.NewSource(seed))
	mols := make([]atomkernel.Molecule, nmol)
	for i := range mols {
		mols[i] = randomMol(rng, 1+rng.Intn(maxAtoms), width)
	}
	return mols
}

func BenchmarkGetAtomicKernelsGaussian(b *testing.B) {
	sigmas := []float64{0.5, 1, 2, 4}
	for _, nmol := range []int{16, 64} {
		mols := raggedMols(1, nmol, 23, 23)
		b.Run(fmt.Sprintf("nmol=%d", nmol), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := atomkernel.GetAtomicKernelsGaussian(mols, mols, sigmas); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkComputePrepacked(b *testing.B) {
	b1, err := atomkernel.NewBatch(raggedMols(2, 64, 23, 23))
	if err != nil {
		b.Fatal(err)
	}
	b2, err := atomkernel.NewBatch(raggedMols(3, 32, 23, 23))
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		_, _ = atomkernel.Compute(kernel.MetricLaplacian, b1, b2, []float64{1, 10})
	}
}
