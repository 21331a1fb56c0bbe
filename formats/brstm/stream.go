// SPDX-License-Identifier: EPL-2.0

package brstm

import (
	"fmt"
	"sync"
)

// HistoryPolicy decides what happens when an ADPCM block is requested before
// the blocks in front of it were decoded. ADPCM prediction of block b+1 is
// seeded from the last two samples of block b, so only a sequential chain
// is guaranteed to be exact.
type HistoryPolicy int

const (
	// HistoryCatchUp decodes the missing predecessors first. Random access is
	// then bit-exact with a sequential decode, at the cost of extra work on
	// the first forward seek.
	HistoryCatchUp HistoryPolicy = iota

	// HistoryStrict rejects the request with ErrOutOfOrderDecode.
	HistoryStrict

	// HistorySeeded decodes the block straight away using the history stored
	// in the ADPC chunk. Cheap, but the result may differ from a sequential
	// decode when the stored table is imprecise.
	HistorySeeded
)

func (p HistoryPolicy) String() string {
	switch p {
	case HistoryCatchUp:
		return "catch-up"
	case HistoryStrict:
		return "strict"
	case HistorySeeded:
		return "seeded"
	}

	return fmt.Sprintf("HistoryPolicy(%d)", int(p))
}

// Config holds the options of a Stream. The zero value is ready to use.
type Config struct {
	History HistoryPolicy
}

// Stream decodes one container held in memory. The buffer may be a prefix of
// the file while it is still arriving; see Update and SamplesReady.
//
// All methods serialize on an internal mutex, so one goroutine may feed
// Update while another reads samples.
type Stream struct {
	mu sync.Mutex

	view   byteView
	idx    containerIndex
	meta   Metadata
	policy HistoryPolicy

	info    []ChannelInfo
	history historyTable
	cache   *blockCache
}

// Open parses the container header in buf with the default Config.
func Open(buf []byte) (*Stream, error) {
	return Config{}.Open(buf)
}

// Open parses the container header in buf. buf must at least reach the first
// sample byte; sample data may still be missing.
func (cfg Config) Open(buf []byte) (*Stream, error) {
	idx, v, err := resolveIndex(buf)
	if err != nil {
		return nil, err
	}

	meta, err := readMetadata(v, idx)
	if err != nil {
		return nil, err
	}

	if idx.dataStart() > len(buf) {
		return nil, fmt.Errorf("%w: sample data starts at 0x%x, buffer holds %d bytes",
			ErrTruncatedBuffer, idx.dataStart(), len(buf))
	}

	info, err := readChannelInfo(v, idx, meta.NumberChannels)
	if err != nil {
		return nil, err
	}

	var history historyTable
	if meta.Codec == CodecADPCM {
		history, err = readHistoryTable(v, idx, meta)
		if err != nil {
			return nil, err
		}
	}

	return &Stream{
		view:    v,
		idx:     idx,
		meta:    meta,
		policy:  cfg.History,
		info:    info,
		history: history,
		cache:   newBlockCache(),
	}, nil
}

// Metadata returns the stream's header fields.
func (s *Stream) Metadata() Metadata {
	return s.meta
}

// ChannelInfo returns a copy of the per-channel ADPCM parameters.
func (s *Stream) ChannelInfo() []ChannelInfo {
	out := make([]ChannelInfo, len(s.info))
	copy(out, s.info)
	return out
}

// Update replaces the buffer with a longer view of the same file. Header
// fields and decoded blocks are kept.
func (s *Stream) Update(buf []byte) error {
	if err := checkMagic(buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(buf) < len(s.view.data) {
		return fmt.Errorf("brstm: update shrinks buffer from %d to %d bytes", len(s.view.data), len(buf))
	}
	s.view.data = buf

	return nil
}

// Buffered reports the length of the current buffer.
func (s *Stream) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.view.data)
}

// SamplesReady reports how many leading samples per channel can be decoded
// from the current buffer.
func (s *Stream) SamplesReady() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	avail := len(s.view.data) - s.idx.dataStart()
	if avail >= s.meta.dataLength() {
		return s.meta.TotalSamples
	}

	rows := avail / (s.meta.NumberChannels * s.meta.BlockSize)
	return min(s.meta.TotalSamples, rows*s.meta.SamplesPerBlock)
}

// DecodedBlocks reports the length of the contiguous run of decoded blocks
// starting at block 0.
func (s *Stream) DecodedBlocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.watermark
}

// GetSamples returns length samples per channel starting at offset. The
// window is clamped to [0, TotalSamples] instead of failing, so the result
// may be shorter than length.
func (s *Stream) GetSamples(offset, length int) ([][]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.meta.TotalSamples
	start := max(0, min(offset, total))
	end := max(start, min(offset+length, total))

	out := make([][]int16, s.meta.NumberChannels)
	for c := range out {
		out[c] = make([]int16, end-start)
	}
	if end == start {
		return out, nil
	}

	spb := s.meta.SamplesPerBlock
	for b := start / spb; b <= (end-1)/spb; b++ {
		blk, err := s.block(b)
		if err != nil {
			return nil, err
		}

		blockStart := b * spb
		from := max(start, blockStart)
		to := min(end, blockStart+spb)
		for c := range out {
			copy(out[c][from-start:to-start], blk[c][from-blockStart:])
		}
	}

	return out, nil
}

// AllSamples decodes the whole file, block by block in order. The result is
// cached and shared between calls; callers must not modify it.
func (s *Stream) AllSamples() ([][]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.all != nil {
		return s.cache.all, nil
	}

	total := s.meta.TotalSamples
	spb := s.meta.SamplesPerBlock
	out := make([][]int16, s.meta.NumberChannels)
	for c := range out {
		out[c] = make([]int16, total)
	}

	for b := 0; b < s.meta.TotalBlocks && b*spb < total; b++ {
		blk, err := s.block(b)
		if err != nil {
			return nil, err
		}
		for c := range out {
			copy(out[c][b*spb:], blk[c])
		}
	}

	s.cache.all = out
	return out, nil
}

// block returns the decoded samples of block b, honouring the history policy.
// Caller holds s.mu.
func (s *Stream) block(b int) ([][]int16, error) {
	if out, ok := s.cache.get(b); ok {
		return out, nil
	}

	if s.meta.Codec == CodecADPCM && b > s.cache.watermark {
		switch s.policy {
		case HistoryStrict:
			return nil, fmt.Errorf("%w: block %d, decoded up to %d", ErrOutOfOrderDecode, b, s.cache.watermark)
		case HistoryCatchUp:
			for s.cache.watermark < b {
				if _, err := s.decode(s.cache.watermark); err != nil {
					return nil, err
				}
			}
		}
	}

	return s.decode(b)
}

func (s *Stream) decode(b int) ([][]int16, error) {
	raw, err := blockBytes(s.view, s.idx, s.meta, b)
	if err != nil {
		return nil, err
	}

	adpcm := s.meta.Codec == CodecADPCM
	last := b == s.meta.TotalBlocks-1
	n := s.meta.samplesInBlock(b)

	out := make([][]int16, s.meta.NumberChannels)
	for c := range out {
		var seed History
		if adpcm {
			seed = s.history[c][b]
		}

		samples, next, err := DecodeBlock(s.meta.Codec, raw[c], n, s.meta.Endianness, &s.info[c], seed)
		if err != nil {
			return nil, fmt.Errorf("block %d channel %d: %w", b, c, err)
		}
		out[c] = samples

		if adpcm && !last {
			s.history[c][b+1] = next
		}
	}

	s.cache.put(b, out)
	return out, nil
}
