// SPDX-License-Identifier: EPL-2.0

package brstm

import "fmt"

// ADPCM frames: one predictor/scale byte followed by 7 bytes of nibbles.
const adpcmSamplesPerFrame = 14

// DecodeBlock decodes n samples of one channel's block.
//
// info and seed are only used by CodecADPCM. The returned History holds the
// last two produced samples, i.e. the seed of the following block. For PCM
// codecs it is returned unchanged.
func DecodeBlock(codec Codec, raw []byte, n int, order ByteOrder, info *ChannelInfo, seed History) ([]int16, History, error) {
	switch codec {
	case CodecPCM8:
		out, err := decodePCM8(raw, n)
		return out, seed, err
	case CodecPCM16:
		out, err := decodePCM16(raw, n, order)
		return out, seed, err
	case CodecADPCM:
		return decodeADPCM(raw, n, info, seed)
	}

	return nil, seed, fmt.Errorf("%w: codec id %d", ErrUnsupportedCodec, int(codec))
}

func shortBlock(have, need int) error {
	return fmt.Errorf("%w: block has %d bytes, need %d", ErrTruncatedBuffer, have, need)
}

func decodePCM8(raw []byte, n int) ([]int16, error) {
	if len(raw) < n {
		return nil, shortBlock(len(raw), n)
	}

	out := make([]int16, n)
	for i := range n {
		out[i] = int16(int8(raw[i]))
	}

	return out, nil
}

func decodePCM16(raw []byte, n int, order ByteOrder) ([]int16, error) {
	if len(raw) < 2*n {
		return nil, shortBlock(len(raw), 2*n)
	}

	bo := order.binary()
	out := make([]int16, n)
	for i := range n {
		out[i] = int16(bo.Uint16(raw[2*i:]))
	}

	return out, nil
}

func decodeADPCM(raw []byte, n int, info *ChannelInfo, seed History) ([]int16, History, error) {
	if info == nil {
		return nil, seed, fmt.Errorf("brstm: ADPCM block without channel info")
	}

	out := make([]int16, n)
	h1, h2 := int32(seed.Yn1), int32(seed.Yn2)

	var ps byte
	pos := 0
	for i := range n {
		if i%adpcmSamplesPerFrame == 0 {
			if pos >= len(raw) {
				return nil, seed, shortBlock(len(raw), pos+1)
			}
			ps = raw[pos]
			pos++
		}
		if pos >= len(raw) {
			return nil, seed, shortBlock(len(raw), pos+1)
		}

		var nibble int32
		if i&1 == 0 {
			nibble = int32(raw[pos] >> 4)
		} else {
			nibble = int32(raw[pos] & 0x0f)
			pos++
		}
		if nibble >= 8 {
			nibble -= 16
		}

		scale := int32(1) << (ps & 0x0f)
		ci := int(ps>>4) << 1

		sum := 0x400 + int64(nibble*scale)<<11 +
			int64(info.coefficient(ci))*int64(h1) +
			int64(info.coefficient(ci+1))*int64(h2)
		// the sum wraps to 32 bits before the shift
		sample := int32(sum) >> 11

		h2 = h1
		h1 = clamp16(sample)
		out[i] = int16(h1)
	}

	return out, History{Yn1: int16(h1), Yn2: int16(h2)}, nil
}

func clamp16(v int32) int32 {
	return max(-32768, min(v, 32767))
}
