// SPDX-License-Identifier: MIT

// Package matrix - Tensor3: three-axis row-major buffer.
//
// Purpose:
//   - Back padded batches (molecule × atom slot × descriptor component) with a
//     single contiguous allocation plus explicit extents.
//   - Offer axis reordering (SwapAxes02) so foreign layouts can be normalised
//     once, at the boundary, into the canonical one (last axis contiguous).
//
// Complexity quicksheet:
//   - NewTensor3: O(d0*d1*d2) zero-init; At/Set/Fiber: O(1); SwapAxes02: O(n).

package matrix

import (
	"fmt"
	"math/bits"
)

const (
	ctxTensorAt  = "At"
	ctxTensorSet  = "Set"
)

// tensorErrorf mirrors denseErrorf for three coordinates.
func tensorErrorf(method string, i, j, k int, err error) error {
	return fmt.Errorf("Tensor3.%s(%d,%d,%d): %w", method, i, j, k, err)
}

// CheckedSize multiplies non-negative extents and reports ErrBadShape when the
// product does not fit in an int. Negative extents yield ErrInvalidDimensions.
// Complexity: O(len(dims)).
func CheckedSize(dims ...int) (int, error) {
	total := uint64(1)
	for _, d := range dims {
		if d < 0 {
			return 0, ErrInvalidDimensions
		}
		hi, lo := bits.Mul64(total, uint64(d))
		if hi != 0 || lo > uint64(maxInt) {
			return 0, ErrBadShape
		}
		total = lo
	}

	return int(total), nil
}

const maxInt = int(^uint(0) >> 1)

// Tensor3 is a dense d0×d1×d2 array stored row-major:
// offset(i,j,k) = (i*d1 + j)*d2 + k. The last axis is contiguous.
type Tensor3 struct {
	d0, d1, d2 int
	data       []float64
}

// NewTensor3 allocates a zero-filled tensor. Zero extents are legal.
//
// Errors:
//   - ErrInvalidDimensions on negative extents.
//   - ErrBadShape when the element count overflows int.
func NewTensor3(d0, d1, d2 int) (*Tensor3, error) {
	n, err := CheckedSize(d0, d1, d2)
	if err != nil {
		return nil, err
	}

	return &Tensor3{d0: d0, d1: d1, d2: d2, data: make([]float64, n)}, nil
}

// NewTensor3FromData wraps data (no copy). len(data) must equal d0*d1*d2.
func NewTensor3FromData(d0, d1, d2 int, data []float64) (*Tensor3, error) {
	n, err := CheckedSize(d0, d1, d2)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, ErrDimensionMismatch
	}

	return &Tensor3{d0: d0, d1: d1, d2: d2, data: data}, nil
}

// Dims returns the three extents.
func (t *Tensor3) Dims() (d0, d1, d2 int) { return t.d0, t.d1, t.d2 }

// Len returns the total number of elements.
func (t *Tensor3) Len() int { return len(t.data) }

// Data returns the flat backing buffer (no copy).
func (t *Tensor3) Data() []float64 { return t.data }

func (t *Tensor3) offset(i, j, k int) (int, error) {
	if i < 0 || i >= t.d0 || j < 0 || j >= t.d1 || k < 0 || k >= t.d2 {
		return 0, ErrOutOfRange
	}

	return (i*t.d1+j)*t.d2 + k, nil
}

// At reads element (i,j,k) or returns ErrOutOfRange.
func (t *Tensor3) At(i, j, k int) (float64, error) {
	off, err := t.offset(i, j, k)
	if err != nil {
		return 0, tensorErrorf(ctxTensorAt, i, j, k, err)
	}

	return t.data[off], nil
}

// Set writes element (i,j,k) or returns ErrOutOfRange.
func (t *Tensor3) Set(i, j, k int, v float64) error {
	off, err := t.offset(i, j, k)
	if err != nil {
		return tensorErrorf(ctxTensorSet, i, j, k, err)
	}
	t.data[off] = v

	return nil
}

// Fiber returns the contiguous d2 run at (i,j). Callers index within bounds;
// it is the hot-path accessor and does not check.
func (t *Tensor3) Fiber(i, j int) []float64 {
	base := (i*t.d1 + j) * t.d2

	return t.data[base : base+t.d2 : base+t.d2]
}

// SwapAxes02 returns a new tensor with axes 0 and 2 exchanged:
// out.At(k,j,i) == t.At(i,j,k). The receiver is not modified.
// Complexity: O(d0*d1*d2) time and space.
func (t *Tensor3) SwapAxes02() *Tensor3 {
	out := &Tensor3{d0: t.d2, d1: t.d1, d2: t.d0, data: make([]float64, len(t.data))}
	var i, j, k, src int
	for i = 0; i < t.d0; i++ {
		for j = 0; j < t.d1; j++ {
			src = (i*t.d1 + j) * t.d2
			for k = 0; k < t.d2; k++ {
				// out offset: (k*d1 + j)*d0 + i
				out.data[(k*t.d1+j)*t.d0+i] = t.data[src+k]
			}
		}
	}

	return out
}

// Clone returns a deep copy.
func (t *Tensor3) Clone() *Tensor3 {
	cp := make([]float64, len(t.data))
	copy(cp, t.data)

	return &Tensor3{d0: t.d0, d1: t.d1, d2: t.d2, data: cp}
}
