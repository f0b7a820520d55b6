// SPDX-License-Identifier: MIT

package kcache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/lvkernel/matrix"
)

// Value layout (little endian):
//
//	u8  version
//	u32 matrix count
//	per matrix: u32 rows, u32 cols, rows*cols float64 bits
const codecVersion byte = 1

func encodeMatrices(ms []*matrix.Dense) ([]byte, error) {
	size := 1 + 4
	for _, m := range ms {
		if m == nil {
			return nil, fmt.Errorf("kcache: encode: %w", matrix.ErrNilMatrix)
		}
		if uint64(m.Rows()) > math.MaxUint32 || uint64(m.Cols()) > math.MaxUint32 {
			return nil, fmt.Errorf("kcache: encode %d×%d: %w", m.Rows(), m.Cols(), matrix.ErrBadShape)
		}
		size += 8 + 8*len(m.Data())
	}

	buf := make([]byte, 0, size)
	buf = append(buf, codecVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ms)))
	for _, m := range ms {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Rows()))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Cols()))
		for _, v := range m.Data() {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}

	return buf, nil
}

func decodeMatrices(buf []byte) ([]*matrix.Dense, error) {
	if len(buf) < 5 || buf[0] != codecVersion {
		return nil, ErrCorrupt
	}
	count := int(binary.LittleEndian.Uint32(buf[1:5]))
	buf = buf[5:]
	// Every matrix carries at least an 8-byte header.
	if count > len(buf)/8 {
		return nil, ErrCorrupt
	}

	ms := make([]*matrix.Dense, 0, count)
	for i := 0; i < count; i++ {
		if len(buf) < 8 {
			return nil, ErrCorrupt
		}
		r := int(binary.LittleEndian.Uint32(buf[0:4]))
		c := int(binary.LittleEndian.Uint32(buf[4:8]))
		buf = buf[8:]
		n, err := matrix.CheckedSize(r, c)
		if err != nil || n > len(buf)/8 {
			return nil, ErrCorrupt
		}
		data := make([]float64, n)
		for k := range data {
			data[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*k:]))
		}
		buf = buf[8*n:]
		m, err := matrix.NewDenseFromData(r, c, data)
		if err != nil {
			return nil, ErrCorrupt
		}
		ms = append(ms, m)
	}
	if len(buf) != 0 {
		return nil, ErrCorrupt
	}

	return ms, nil
}
