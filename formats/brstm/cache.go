// SPDX-License-Identifier: EPL-2.0

package brstm

// blockCache memoizes decoded blocks, indexed [block][channel], and the
// full-file concatenation. Entries are allocated as blocks are decoded.
type blockCache struct {
	blocks map[int][][]int16

	// blocks [0, watermark) are all decoded
	watermark int

	all [][]int16
}

func newBlockCache() *blockCache {
	return &blockCache{blocks: make(map[int][][]int16)}
}

func (c *blockCache) get(b int) ([][]int16, bool) {
	s, ok := c.blocks[b]
	return s, ok
}

func (c *blockCache) put(b int, samples [][]int16) {
	c.blocks[b] = samples
	for {
		if _, ok := c.blocks[c.watermark]; !ok {
			break
		}
		c.watermark++
	}
}
