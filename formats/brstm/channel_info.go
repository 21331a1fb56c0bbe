// SPDX-License-Identifier: EPL-2.0

package brstm

import "fmt"

// ChannelInfo is the per-channel ADPCM setup stored in HEAD part 3.
type ChannelInfo struct {
	Coefficients [16]int16

	Gain                  uint16
	InitialPredictorScale uint16
	HistorySample1        int16
	HistorySample2        int16
	LoopPredictorScale    uint16
	LoopHistorySample1    int16
	LoopHistorySample2    int16
}

// coefficient returns the coefficient at i, with i clamped to the table.
func (ci *ChannelInfo) coefficient(i int) int32 {
	i = max(0, min(i, len(ci.Coefficients)-1))
	return int32(ci.Coefficients[i])
}

func readChannelInfo(v byteView, idx containerIndex, channels int) ([]ChannelInfo, error) {
	r := &fieldReader{v: v}
	out := make([]ChannelInfo, channels)

	for c := range channels {
		// skip the 8 byte channel header in front of the ADPCM parameters
		base := idx.head + r.u32(idx.part3+8+c*8) + 8 + 8

		ci := &out[c]
		for i := range ci.Coefficients {
			ci.Coefficients[i] = r.i16(base + 2*i)
		}
		// 8 bytes after the coefficients are skipped
		ci.Gain = r.raw16(base + 0x28)
		ci.InitialPredictorScale = r.raw16(base + 0x2a)
		ci.HistorySample1 = r.i16(base + 0x2c)
		ci.HistorySample2 = r.i16(base + 0x2e)
		ci.LoopPredictorScale = r.raw16(base + 0x30)
		ci.LoopHistorySample1 = r.i16(base + 0x32)
		ci.LoopHistorySample2 = r.i16(base + 0x34)

		if r.err != nil {
			return nil, fmt.Errorf("reading channel %d info: %w", c, r.err)
		}
	}

	return out, nil
}
