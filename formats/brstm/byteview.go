// SPDX-License-Identifier: EPL-2.0

package brstm

import (
	"encoding/binary"
	"fmt"
)

// byteView reads fixed-width fields out of the container buffer.
// Every read is bounds checked; the buffer may be a prefix of the file.
type byteView struct {
	data  []byte
	order binary.ByteOrder
}

func (v byteView) span(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(v.data)-n {
		return nil, fmt.Errorf("%w: need %d bytes at 0x%x, have %d", ErrTruncatedBuffer, n, off, len(v.data))
	}

	return v.data[off : off+n], nil
}

// uint reads an unsigned integer of n bytes (1, 2 or 4).
func (v byteView) uint(off, n int) (uint32, error) {
	b, err := v.span(off, n)
	if err != nil {
		return 0, err
	}

	switch n {
	case 1:
		return uint32(b[0]), nil
	case 2:
		return uint32(v.order.Uint16(b)), nil
	case 4:
		return v.order.Uint32(b), nil
	}

	return 0, fmt.Errorf("brstm: unsupported field width %d", n)
}

// str reads an n byte identifier. Little-endian views reverse the bytes,
// matching how numeric fields are read.
func (v byteView) str(off, n int) (string, error) {
	b, err := v.span(off, n)
	if err != nil {
		return "", err
	}

	out := make([]byte, n)
	copy(out, b)
	if v.order == binary.LittleEndian {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}

	return string(out), nil
}

// toInt16 reinterprets a raw 16-bit field as two's complement.
func toInt16(raw uint32) int16 {
	if raw >= 0x8000 {
		return int16(int32(raw) - 0x10000)
	}

	return int16(raw)
}

// fieldReader is a byteView with a sticky error, so a run of header fields
// can be read without checking each one.
type fieldReader struct {
	v   byteView
	err error
}

func (r *fieldReader) read(off, n int) uint32 {
	if r.err != nil {
		return 0
	}

	val, err := r.v.uint(off, n)
	if err != nil {
		r.err = err
	}

	return val
}

func (r *fieldReader) u8(off int) int { return int(r.read(off, 1)) }
func (r *fieldReader) u16(off int) int { return int(r.read(off, 2)) }
func (r *fieldReader) u32(off int) int { return int(r.read(off, 4)) }
func (r *fieldReader) i16(off int) int16 { return toInt16(r.read(off, 2)) }
func (r *fieldReader) raw16(off int) uint16 { return uint16(r.read(off, 2)) }
