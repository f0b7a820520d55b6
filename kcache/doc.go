// SPDX-License-Identifier: MIT

// Package kcache memoises kernel matrices in a Badger key-value store.
//
// Entries are addressed by a BLAKE2b-256 Key over the metric, the sigma
// values and the descriptor data itself, so a cached result is only ever
// returned for bit-identical inputs. Values are a small versioned binary
// encoding of one or more *matrix.Dense.
//
//	c, err := kcache.OpenInMemory()
//	...
//	defer c.Close()
//	key := kcache.DenseKey(kernel.MetricGaussian, 2, kernel.RowMajor, a, b)
//	k, hit, err := c.GetOrCompute(key, func() ([]*matrix.Dense, error) {
//		m, err := kernel.Gaussian(a, b, 2)
//		return []*matrix.Dense{m}, err
//	})
//
// A Cache is safe for concurrent use.
package kcache
