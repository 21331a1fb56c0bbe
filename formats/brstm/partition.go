// SPDX-License-Identifier: EPL-2.0

package brstm

import "fmt"

// blockRange returns the byte range of block b for channel c, relative to
// the first sample byte. Channels are interleaved block by block; inside the
// final block every channel is padded to FinalBlockSizeWithPadding.
func (m Metadata) blockRange(b, c int) (off, length int) {
	if b == m.TotalBlocks-1 {
		return b*m.NumberChannels*m.BlockSize + c*m.FinalBlockSizeWithPadding, m.FinalBlockSize
	}

	return (b*m.NumberChannels + c) * m.BlockSize, m.BlockSize
}

// blockBytes slices the raw bytes of block b for every channel. The slices
// alias the buffer and must not be modified.
func blockBytes(v byteView, idx containerIndex, m Metadata, b int) ([][]byte, error) {
	if b < 0 || b >= m.TotalBlocks {
		return nil, fmt.Errorf("brstm: block %d outside 0..%d", b, m.TotalBlocks-1)
	}

	out := make([][]byte, m.NumberChannels)
	for c := range out {
		off, n := m.blockRange(b, c)
		raw, err := v.span(idx.dataStart()+off, n)
		if err != nil {
			return nil, fmt.Errorf("block %d channel %d: %w", b, c, err)
		}
		out[c] = raw
	}

	return out, nil
}
