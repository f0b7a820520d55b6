// SPDX-License-Identifier: MIT
// Package atomkernel - batched multi-sigma evaluation.
//
// For molecules i (batch 1) and j (batch 2) and every sigma s:
//
//	K_s[i][j] = Σ_{a<n1[i]} Σ_{b<n2[j]} exp(-c_s · dist(x1[i][a], x2[j][b]))
//
// The distance of an atom pair is computed once and reused for every sigma.
// Molecules i are handed out by work stealing since ragged counts make rows
// uneven; row i of every output is written by one worker only.

package atomkernel

import (
	"math"

	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
)

// evaluate runs the batched routine over canonical, validated batches.
// With symmetric set (b1 == b2) only j ≥ i is evaluated and mirrored.
func evaluate(metric kernel.Metric, b1, b2 *Batch, sigmas []float64, symmetric bool, o Options) ([]*matrix.Dense, error) {
	nm1, nm2 := b1.Len(), b2.Len()
	outs := make([]*matrix.Dense, len(sigmas))
	cells := make([][]float64, len(sigmas))
	coefs := make([]float64, len(sigmas))
	for s, sigma := range sigmas {
		out, err := matrix.NewDenseAllowEmpty(nm1, nm2)
		if err != nil {
			return nil, err
		}
		outs[s], cells[s] = out, out.Data()
		coefs[s] = metric.Coefficient(sigma)
	}
	if nm1 == 0 || nm2 == 0 {
		return outs, nil
	}

	work := float64(b1.totalAtoms()) * float64(b2.totalAtoms()) * float64(max(b1.Width(), 1))
	pool, release := o.acquirePool(int(min(work, math.MaxInt32)))
	defer release()

	mean := o.Reduction == Mean
	pool.ParallelForAtomic(nm1, func(i int) {
		acc := make([]float64, len(sigmas))
		n1 := b1.counts[i]
		j0 := 0
		if symmetric {
			j0 = i
		}
		for j := j0; j < nm2; j++ {
			n2 := b2.counts[j]
			clear(acc)
			for a := 0; a < n1; a++ {
				xa := b1.atom(i, a)
				for b := 0; b < n2; b++ {
					d := metric.Distance(xa, b2.atom(j, b))
					for s, c := range coefs {
						acc[s] += math.Exp(-c * d)
					}
				}
			}
			scale := 1.0
			if mean && n1 > 0 && n2 > 0 {
				scale = 1 / float64(n1*n2)
			}
			for s := range cells {
				cells[s][i*nm2+j] = acc[s] * scale
			}
		}
	})

	if symmetric {
		pool.ParallelFor(nm1, func(start, end int) {
			for i := start; i < end; i++ {
				for j := 0; j < i; j++ {
					for s := range cells {
						cells[s][i*nm2+j] = cells[s][j*nm2+i]
					}
				}
			}
		})
	}

	return outs, nil
}
