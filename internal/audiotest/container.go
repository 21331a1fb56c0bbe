// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
)

// Fixed layout of containers built by Container.Bytes.
const (
	HeadOffset  = 0x40
	Part1Offset = 0x60
	Part2Offset = 0x98
	Part3Offset = 0xa0

	channelInfoSize = 0x38
)

// Codec ids as stored in HEAD part 1.
const (
	CodecPCM8  = 0
	CodecPCM16 = 1
	CodecADPCM = 2
)

// Container describes an RSTM file to synthesize. Zero values pick sensible
// defaults where the format allows it.
type Container struct {
	LittleEndian bool
	Codec        uint8
	SampleRate   int
	Loop         bool
	LoopStart    int

	TotalSamples    int
	SamplesPerBlock int
	BlockSize       int

	// Blocks[b][c] is the payload of block b for channel c. All blocks but
	// the last must be BlockSize bytes long.
	Blocks [][][]byte

	// Per-channel ADPCM parameters. Missing entries are zero.
	Coefficients   [][16]int16
	Gain           []uint16
	PredictorScale []uint16

	// ADPC holds the history rows: row b carries one {yn1, yn2} pair per
	// channel. Missing rows are zero.
	ADPC [][][2]int16

	TrackCount uint8
	TrackType  uint8
}

type containerLayout struct {
	channels     int
	blocks       int
	finalSize    int
	finalPadded  int
	finalSamples int

	infoBase int
	adpc     int
	adpcSize int
	data     int
	size     int
}

func align(n, to int) int {
	return (n + to - 1) / to * to
}

func (c Container) layout() containerLayout {
	l := containerLayout{
		channels: len(c.Blocks[0]),
		blocks:   len(c.Blocks),
	}
	l.finalSize = len(c.Blocks[l.blocks-1][0])
	l.finalPadded = align(l.finalSize, 0x20)
	l.finalSamples = c.TotalSamples - (l.blocks-1)*c.SamplesPerBlock

	l.infoBase = align(Part3Offset+8+l.channels*8, 0x10)
	l.adpc = align(l.infoBase+l.channels*channelInfoSize, 0x20)
	l.adpcSize = 8 + l.blocks*l.channels*4
	l.data = align(l.adpc+l.adpcSize, 0x20)
	l.size = l.data + 0x20 + (l.blocks-1)*l.channels*c.BlockSize + l.channels*l.finalPadded

	return l
}

// DataStart is the absolute offset of the first sample byte.
func (c Container) DataStart() int {
	return c.layout().data + 0x20
}

// BlockOffset is the absolute offset of block b, channel ch.
func (c Container) BlockOffset(b, ch int) int {
	l := c.layout()
	if b == l.blocks-1 {
		return c.DataStart() + b*l.channels*c.BlockSize + ch*l.finalPadded
	}

	return c.DataStart() + (b*l.channels+ch)*c.BlockSize
}

// ByteOrder is implemented by binary.LittleEndian and binary.BigEndian.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// ByteOrder returns the order the container is written in.
func (c Container) ByteOrder() ByteOrder {
	if c.LittleEndian {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// Bytes serializes the container.
func (c Container) Bytes() []byte {
	l := c.layout()
	bo := c.ByteOrder()
	buf := make([]byte, l.size)

	put32 := func(off, v int) { bo.PutUint32(buf[off:], uint32(v)) }
	put16 := func(off int, v uint16) { bo.PutUint16(buf[off:], v) }

	copy(buf, "RSTM")
	if c.LittleEndian {
		buf[4], buf[5] = 0xff, 0xfe
	} else {
		buf[4], buf[5] = 0xfe, 0xff
	}
	put32(0x08, l.size)
	put32(0x10, HeadOffset)
	put32(0x14, l.adpc-HeadOffset)
	put32(0x18, l.adpc)
	put32(0x1c, l.adpcSize)
	put32(0x20, l.data)
	put32(0x24, l.size-l.data)

	copy(buf[HeadOffset:], "HEAD")
	put32(HeadOffset+4, l.adpc-HeadOffset)
	put32(HeadOffset+0x0c, Part1Offset-HeadOffset-8)
	put32(HeadOffset+0x14, Part2Offset-HeadOffset-8)
	put32(HeadOffset+0x1c, Part3Offset-HeadOffset-8)

	p1 := Part1Offset
	buf[p1] = c.Codec
	if c.Loop {
		buf[p1+0x01] = 1
	}
	buf[p1+0x02] = byte(l.channels)
	put16(p1+0x04, uint16(c.SampleRate))
	put32(p1+0x08, c.LoopStart)
	put32(p1+0x0c, c.TotalSamples)
	put32(p1+0x10, l.data+0x20)
	put32(p1+0x14, l.blocks)
	put32(p1+0x18, c.BlockSize)
	put32(p1+0x1c, c.SamplesPerBlock)
	put32(p1+0x20, l.finalSize)
	put32(p1+0x24, l.finalSamples)
	put32(p1+0x28, l.finalPadded)
	put32(p1+0x2c, c.SamplesPerBlock)
	put32(p1+0x30, 4)

	buf[Part2Offset] = max(c.TrackCount, 1)
	buf[Part2Offset+1] = c.TrackType

	buf[Part3Offset] = byte(l.channels)
	for ch := range l.channels {
		info := l.infoBase + ch*channelInfoSize
		put32(Part3Offset+8+ch*8, info-HeadOffset-16)

		if ch < len(c.Coefficients) {
			for i, k := range c.Coefficients[ch] {
				put16(info+2*i, uint16(k))
			}
		}
		if ch < len(c.Gain) {
			put16(info+0x28, c.Gain[ch])
		}
		if ch < len(c.PredictorScale) {
			put16(info+0x2a, c.PredictorScale[ch])
		}
	}

	copy(buf[l.adpc:], "ADPC")
	put32(l.adpc+4, l.adpcSize)
	for b, row := range c.ADPC {
		for ch, pair := range row {
			off := l.adpc + 8 + (b*l.channels+ch)*4
			put16(off, uint16(pair[0]))
			put16(off+2, uint16(pair[1]))
		}
	}

	copy(buf[l.data:], "DATA")
	put32(l.data+4, l.size-l.data)
	put32(l.data+8, 0x18)
	for b, blk := range c.Blocks {
		for ch, payload := range blk {
			copy(buf[c.BlockOffset(b, ch):], payload)
		}
	}

	return buf
}

// SplitBlocks cuts per-channel payloads into blocks of blockSize bytes. The
// last block keeps the remainder.
func SplitBlocks(payloads [][]byte, blockSize int) [][][]byte {
	n := len(payloads[0])
	var out [][][]byte
	for off := 0; off < n; off += blockSize {
		blk := make([][]byte, len(payloads))
		for ch, p := range payloads {
			blk[ch] = p[off:min(off+blockSize, n)]
		}
		out = append(out, blk)
	}

	return out
}

// EncodePCM16 serializes samples in the given order.
func EncodePCM16(bo binary.AppendByteOrder, samples []int16) []byte {
	out := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		out = bo.AppendUint16(out, uint16(s))
	}

	return out
}

// PCM16 builds a 16-bit PCM container holding channels, which must all have
// the same length.
func PCM16(littleEndian bool, sampleRate, samplesPerBlock int, channels [][]int16) Container {
	c := Container{
		LittleEndian:    littleEndian,
		Codec:           CodecPCM16,
		SampleRate:      sampleRate,
		TotalSamples:    len(channels[0]),
		SamplesPerBlock: samplesPerBlock,
		BlockSize:       2 * samplesPerBlock,
	}

	payloads := make([][]byte, len(channels))
	for ch, s := range channels {
		payloads[ch] = EncodePCM16(c.ByteOrder(), s)
	}
	c.Blocks = SplitBlocks(payloads, c.BlockSize)

	return c
}

// ADPCM builds a 4-bit ADPCM container from raw per-channel frame data.
// samplesPerBlock must be a multiple of 14.
func ADPCM(sampleRate, samplesPerBlock, totalSamples int, frames [][]byte, coefficients [][16]int16) Container {
	blockSize := samplesPerBlock / 14 * 8
	return Container{
		Codec:           CodecADPCM,
		SampleRate:      sampleRate,
		TotalSamples:    totalSamples,
		SamplesPerBlock: samplesPerBlock,
		BlockSize:       blockSize,
		Blocks:          SplitBlocks(frames, blockSize),
		Coefficients:    coefficients,
	}
}

// Ramp returns n samples start, start+step, ... wrapping at 16 bits.
func Ramp(n int, start, step int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = start + int16(i)*step
	}

	return out
}
