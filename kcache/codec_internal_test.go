// SPDX-License-Identifier: MIT

package kcache

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodec_RoundTrip keeps shapes, including empty ones, and exact bits.
func TestCodec_RoundTrip(t *testing.T) {
	a, err := matrix.NewDenseFromData(2, 2, []float64{1, -0.5, math.SmallestNonzeroFloat64, 3})
	require.NoError(t, err)
	empty, err := matrix.NewDenseAllowEmpty(0, 3)
	require.NoError(t, err)

	buf, err := encodeMatrices([]*matrix.Dense{a, empty})
	require.NoError(t, err)
	got, err := decodeMatrices(buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.Data(), got[0].Data())
	assert.Equal(t, 0, got[1].Rows())
	assert.Equal(t, 3, got[1].Cols())

	_, err = encodeMatrices([]*matrix.Dense{nil})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestCodec_RejectsCorrupt covers truncation, trailing bytes, bad versions
// and counts larger than the payload can hold.
func TestCodec_RejectsCorrupt(t *testing.T) {
	a, err := matrix.NewDenseFromData(1, 2, []float64{1, 2})
	require.NoError(t, err)
	good, err := encodeMatrices([]*matrix.Dense{a})
	require.NoError(t, err)

	hugeCount := []byte{codecVersion}
	hugeCount = binary.LittleEndian.AppendUint32(hugeCount, math.MaxUint32)

	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"bad version", append([]byte{codecVersion + 1}, good[1:]...)},
		{"truncated", good[:len(good)-3]},
		{"trailing", append(append([]byte{}, good...), 0)},
		{"count beyond payload", hugeCount},
		{"count beyond headers", binary.LittleEndian.AppendUint32(append([]byte{}, hugeCount...), 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeMatrices(tc.buf)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
