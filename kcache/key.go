// SPDX-License-Identifier: MIT

package kcache

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"

	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
	"golang.org/x/crypto/blake2b"
)

// Key is the BLAKE2b-256 digest of everything that determines a result.
type Key [blake2b.Size256]byte

// String returns the hex form.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Hasher accumulates a Key. Values are written in a fixed little-endian
// encoding, so equal inputs give equal keys on every platform.
type Hasher struct {
	h   hash.Hash
	buf [8]byte
}

// NewHasher starts a key for the given result kind ("dense", "atomic", ...).
func NewHasher(kind string) *Hasher {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	hs := &Hasher{h: h}
	hs.String(kind)

	return hs
}

// String writes a length-prefixed string.
func (hs *Hasher) String(s string) *Hasher {
	hs.Int(len(s))
	hs.h.Write([]byte(s))
	return hs
}

// Int writes v as a 64-bit integer.
func (hs *Hasher) Int(v int) *Hasher {
	binary.LittleEndian.PutUint64(hs.buf[:], uint64(int64(v)))
	hs.h.Write(hs.buf[:])
	return hs
}

// Float writes the IEEE-754 bits of v.
func (hs *Hasher) Float(v float64) *Hasher {
	binary.LittleEndian.PutUint64(hs.buf[:], math.Float64bits(v))
	hs.h.Write(hs.buf[:])
	return hs
}

// Floats writes a length-prefixed slice.
func (hs *Hasher) Floats(vs []float64) *Hasher {
	hs.Int(len(vs))
	for _, v := range vs {
		hs.Float(v)
	}
	return hs
}

// Matrix writes the shape and row-major values of m; a nil matrix hashes as 0×0.
func (hs *Hasher) Matrix(m matrix.Matrix) *Hasher {
	if matrix.ValidateNotNil(m) != nil {
		return hs.Int(0).Int(0)
	}
	r, c := m.Rows(), m.Cols()
	hs.Int(r).Int(c)
	if d, ok := m.(*matrix.Dense); ok {
		for _, v := range d.Data() {
			hs.Float(v)
		}
		return hs
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, _ := m.At(i, j)
			hs.Float(v)
		}
	}
	return hs
}

// Rows writes a row collection with its shape, so ragged input hashes
// differently from any rectangular one.
func (hs *Hasher) Rows(rows [][]float64) *Hasher {
	hs.Int(len(rows))
	for _, row := range rows {
		hs.Floats(row)
	}
	return hs
}

// Sum finalises the key.
func (hs *Hasher) Sum() Key {
	var k Key
	copy(k[:], hs.h.Sum(nil))
	return k
}

// DenseKey identifies a dense kernel evaluation.
func DenseKey(metric kernel.Metric, sigma float64, layout kernel.Layout, a, b matrix.Matrix) Key {
	return NewHasher("dense").
		String(metric.String()).
		Float(sigma).
		String(layout.String()).
		Matrix(a).
		Matrix(b).
		Sum()
}

// AtomicKey identifies an atomic kernel evaluation over molecule batches.
// Only the first AtomCount rows of every molecule take part, matching what
// the engine reads.
func AtomicKey(metric kernel.Metric, sigmas []float64, reduction atomkernel.Reduction, mols1, mols2 []atomkernel.Molecule) (Key, error) {
	hs := NewHasher("atomic").
		String(metric.String()).
		Floats(sigmas).
		String(reduction.String())
	for side, mols := range [][]atomkernel.Molecule{mols1, mols2} {
		hs.Int(len(mols))
		for i, m := range mols {
			if m == nil {
				return Key{}, fmt.Errorf("kcache: batch %d molecule %d: %w", side+1, i, kernel.ErrNilInput)
			}
			n := m.AtomCount()
			hs.Int(n)
			if n <= 0 {
				continue
			}
			d, err := m.LocalDescriptors()
			if err != nil {
				return Key{}, fmt.Errorf("kcache: batch %d molecule %d: %w", side+1, i, err)
			}
			if matrix.ValidateNotNil(d) != nil || d.Rows() < n {
				return Key{}, fmt.Errorf("kcache: batch %d molecule %d: %w", side+1, i, atomkernel.ErrAtomCount)
			}
			hs.Int(d.Cols())
			for a := 0; a < n; a++ {
				for c := 0; c < d.Cols(); c++ {
					v, _ := d.At(a, c)
					hs.Float(v)
				}
			}
		}
	}

	return hs.Sum(), nil
}
