// SPDX-License-Identifier: EPL-2.0

package brstm

import "fmt"

// History is the pair of previously decoded samples that seeds ADPCM
// prediction at the start of a block.
type History struct {
	Yn1 int16 // most recent
	Yn2 int16
}

// historyTable is indexed [channel][block]. The decoder overwrites entry b+1
// after decoding block b, so values are exact once the chain is followed.
type historyTable [][]History

// readHistoryTable parses the ADPC chunk: a size field, then a seed row with
// one pair per channel, then one row per remaining block. Block 0 of every
// channel is seeded with the last pair of the seed row.
func readHistoryTable(v byteView, idx containerIndex, m Metadata) (historyTable, error) {
	r := &fieldReader{v: v}
	size := r.u32(idx.adpc + 4)
	if r.err != nil {
		return nil, fmt.Errorf("reading ADPC chunk: %w", r.err)
	}

	rows := m.TotalBlocks
	need := rows * m.NumberChannels * 4
	if size < need {
		return nil, fmt.Errorf("%w: ADPC chunk holds %d bytes, %d blocks need %d",
			ErrInvalidContainer, size, rows, need)
	}

	base := idx.adpc + 8
	if need > len(v.data)-base {
		return nil, fmt.Errorf("%w: ADPC table needs %d bytes at 0x%x, buffer holds %d",
			ErrTruncatedBuffer, need, base, len(v.data))
	}

	pair := func(row, c int) History {
		off := base + (row*m.NumberChannels+c)*4
		return History{Yn1: r.i16(off), Yn2: r.i16(off + 2)}
	}

	seed := pair(0, m.NumberChannels-1)
	table := make(historyTable, m.NumberChannels)
	for c := range table {
		table[c] = make([]History, rows)
		table[c][0] = seed
		for b := 1; b < rows; b++ {
			table[c][b] = pair(b, c)
		}
	}
	if r.err != nil {
		return nil, fmt.Errorf("reading ADPC chunk: %w", r.err)
	}

	return table, nil
}
