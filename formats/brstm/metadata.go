// SPDX-License-Identifier: EPL-2.0

package brstm

import "fmt"

// Codec identifies the sample encoding of the DATA chunk.
type Codec int

const (
	CodecPCM8  Codec = 0
	CodecPCM16 Codec = 1
	CodecADPCM Codec = 2
)

func (c Codec) String() string {
	switch c {
	case CodecPCM8:
		return "PCM8"
	case CodecPCM16:
		return "PCM16"
	case CodecADPCM:
		return "ADPCM"
	}

	return fmt.Sprintf("Codec(%d)", int(c))
}

// Metadata is everything needed to decode the stream, read from HEAD parts 1
// and 2. It never changes once a Stream is open.
type Metadata struct {
	FileSize   int
	Endianness ByteOrder

	Codec           Codec
	LoopFlag        bool
	NumberChannels  int
	SampleRate      int
	LoopStartSample int
	TotalSamples    int

	// AudioDataOffset is the absolute offset of the first sample byte as the
	// header declares it; streaming loaders use it as the header size.
	AudioDataOffset int

	TotalBlocks               int // per channel, including the final block
	BlockSize                 int
	SamplesPerBlock           int
	FinalBlockSize            int // bytes, without padding
	TotalSamplesInFinalBlock  int
	FinalBlockSizeWithPadding int

	ADPCSamplesPerEntry int
	ADPCBytesPerEntry   int

	NumberTracks         int
	TrackDescriptionType int
}

// HEAD part 1 field offsets.
const (
	p1Codec           = 0x00
	p1LoopFlag        = 0x01
	p1Channels        = 0x02
	p1SampleRate      = 0x04
	p1LoopStart       = 0x08
	p1TotalSamples    = 0x0c
	p1AudioDataOffset = 0x10
	p1TotalBlocks     = 0x14
	p1BlockSize       = 0x18
	p1SamplesPerBlock = 0x1c
	p1FinalBlockSize  = 0x20
	p1FinalSamples    = 0x24
	p1FinalPadded     = 0x28
	p1ADPCSamples     = 0x2c
	p1ADPCBytes       = 0x30

	p2NumberTracks = 0x00
	p2TrackType    = 0x01
)

func readMetadata(v byteView, idx containerIndex) (Metadata, error) {
	r := &fieldReader{v: v}
	p1, p2 := idx.part1, idx.part2

	m := Metadata{
		FileSize:   r.u32(offFileSize),
		Endianness: idx.order,

		Codec:           Codec(r.u8(p1 + p1Codec)),
		LoopFlag:        r.u8(p1+p1LoopFlag) == 1,
		NumberChannels:  r.u8(p1 + p1Channels),
		SampleRate:      r.u16(p1 + p1SampleRate),
		LoopStartSample: r.u32(p1 + p1LoopStart),
		TotalSamples:    r.u32(p1 + p1TotalSamples),
		AudioDataOffset: r.u32(p1 + p1AudioDataOffset),

		TotalBlocks:               r.u32(p1 + p1TotalBlocks),
		BlockSize:                 r.u32(p1 + p1BlockSize),
		SamplesPerBlock:           r.u32(p1 + p1SamplesPerBlock),
		FinalBlockSize:            r.u32(p1 + p1FinalBlockSize),
		TotalSamplesInFinalBlock:  r.u32(p1 + p1FinalSamples),
		FinalBlockSizeWithPadding: r.u32(p1 + p1FinalPadded),

		ADPCSamplesPerEntry: r.u32(p1 + p1ADPCSamples),
		ADPCBytesPerEntry:   r.u32(p1 + p1ADPCBytes),

		NumberTracks:         r.u8(p2 + p2NumberTracks),
		TrackDescriptionType: r.u8(p2 + p2TrackType),
	}
	if r.err != nil {
		return Metadata{}, fmt.Errorf("reading stream metadata: %w", r.err)
	}

	if err := m.validate(idx.dataStart()); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

// validate checks the header fields against each other and against the
// declared file size, so nothing derived from them can exceed the file.
func (m Metadata) validate(dataStart int) error {
	switch m.Codec {
	case CodecPCM8, CodecPCM16, CodecADPCM:
	default:
		return fmt.Errorf("%w: codec id %d", ErrUnsupportedCodec, int(m.Codec))
	}

	switch {
	case m.NumberChannels == 0:
		return fmt.Errorf("%w: zero channels", ErrInvalidContainer)
	case m.TotalBlocks == 0 || m.BlockSize == 0 || m.SamplesPerBlock == 0:
		return fmt.Errorf("%w: empty block geometry", ErrInvalidContainer)
	case m.TotalSamplesInFinalBlock > m.SamplesPerBlock:
		return fmt.Errorf("%w: final block holds %d samples, blocks hold %d",
			ErrInvalidContainer, m.TotalSamplesInFinalBlock, m.SamplesPerBlock)
	case m.TotalBlocks > ceilDiv(max(m.TotalSamples, 1), m.SamplesPerBlock):
		return fmt.Errorf("%w: %d blocks declared for %d samples",
			ErrInvalidContainer, m.TotalBlocks, m.TotalSamples)
	case m.TotalSamples > m.blockCapacity():
		return fmt.Errorf("%w: %d samples do not fit in %d blocks",
			ErrInvalidContainer, m.TotalSamples, m.TotalBlocks)
	}

	avail := m.FileSize - dataStart
	switch {
	case avail < 0,
		m.TotalBlocks-1 > avail/(m.NumberChannels*m.BlockSize),
		m.FinalBlockSizeWithPadding > avail,
		m.dataLength() > avail:
		return fmt.Errorf("%w: %d blocks of %d bytes do not fit in a %d byte file",
			ErrInvalidContainer, m.TotalBlocks, m.BlockSize, m.FileSize)
	}

	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// blockCapacity is the number of samples the declared blocks can hold.
func (m Metadata) blockCapacity() int {
	return (m.TotalBlocks-1)*m.SamplesPerBlock + m.TotalSamplesInFinalBlock
}

// samplesInBlock is the decoded length of block b.
func (m Metadata) samplesInBlock(b int) int {
	if b == m.TotalBlocks-1 {
		return m.TotalSamplesInFinalBlock
	}

	return m.SamplesPerBlock
}

// dataLength is the byte length of the DATA payload up to the end of the last
// channel's final block (trailing padding excluded).
func (m Metadata) dataLength() int {
	last := m.TotalBlocks - 1
	return last*m.NumberChannels*m.BlockSize +
		(m.NumberChannels-1)*m.FinalBlockSizeWithPadding + m.FinalBlockSize
}
