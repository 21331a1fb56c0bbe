// SPDX-License-Identifier: EPL-2.0

package brstm

import (
	"encoding/binary"
	"fmt"
)

// Magic is the identifier at offset 0 of every container.
const Magic = "RSTM"

// File header offsets.
const (
	offBOM      = 0x04
	offFileSize = 0x08
	offHead     = 0x10
	offADPC     = 0x18
	offData     = 0x20

	// sample bytes start this far into the DATA chunk
	dataPayloadSkip = 0x20

	// HEAD chunk pointers to its three parts, relative to HEAD+8
	offHeadPart1 = 0x0c
	offHeadPart2 = 0x14
	offHeadPart3 = 0x1c
)

// ByteOrder is the endianness declared by the byte-order mark.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little-endian"
	}

	return "big-endian"
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// containerIndex holds the absolute offsets resolved from the preamble.
type containerIndex struct {
	order ByteOrder

	head  int
	part1 int
	part2 int
	part3 int
	adpc  int
	data  int
}

// detectOrder reads the byte-order mark: FF FE is little-endian, anything
// else big-endian.
func detectOrder(buf []byte) (ByteOrder, error) {
	bom, err := byteView{data: buf, order: binary.BigEndian}.span(offBOM, 2)
	if err != nil {
		return BigEndian, err
	}

	if bom[0] == 0xff && bom[1] == 0xfe {
		return LittleEndian, nil
	}

	return BigEndian, nil
}

// checkMagic compares the first four bytes with Magic as stored, before the
// byte order is known.
func checkMagic(buf []byte) error {
	magic, err := byteView{data: buf, order: binary.BigEndian}.str(0, len(Magic))
	if err != nil || magic != Magic {
		return fmt.Errorf("%w: missing %q magic", ErrInvalidContainer, Magic)
	}

	return nil
}

func resolveIndex(buf []byte) (containerIndex, byteView, error) {
	if err := checkMagic(buf); err != nil {
		return containerIndex{}, byteView{}, err
	}

	order, err := detectOrder(buf)
	if err != nil {
		return containerIndex{}, byteView{}, err
	}

	v := byteView{data: buf, order: order.binary()}
	r := &fieldReader{v: v}

	idx := containerIndex{order: order}
	idx.head = r.u32(offHead)
	idx.adpc = r.u32(offADPC)
	idx.data = r.u32(offData)
	if r.err != nil {
		return containerIndex{}, byteView{}, r.err
	}

	idx.part1 = idx.head + r.u32(idx.head+offHeadPart1) + 8
	idx.part2 = idx.head + r.u32(idx.head+offHeadPart2) + 8
	idx.part3 = idx.head + r.u32(idx.head+offHeadPart3) + 8
	if r.err != nil {
		return containerIndex{}, byteView{}, fmt.Errorf("resolving HEAD chunk: %w", r.err)
	}

	return idx, v, nil
}

// dataStart is the absolute offset of the first sample byte.
func (idx containerIndex) dataStart() int {
	return idx.data + dataPayloadSkip
}
