// SPDX-License-Identifier: EPL-2.0

// Package brstm decodes RSTM streaming audio containers.
//
// An RSTM file is a chunked binary container, similar in spirit to RIFF,
// holding multichannel audio split into fixed-size blocks. Three codecs are
// supported:
//   - 8-bit PCM (CodecPCM8)
//   - 16-bit PCM (CodecPCM16)
//   - 4-bit ADPCM (CodecADPCM)
//
// Both byte orders are accepted; the byte-order mark at offset 4 decides.
//
// # Random Access
//
// Open parses the header and returns a Stream. GetSamples returns any
// window of samples, one []int16 per channel:
//
//	s, err := brstm.Open(data)
//	if err != nil {
//	    // ErrInvalidContainer, ErrTruncatedBuffer or ErrUnsupportedCodec
//	}
//	win, err := s.GetSamples(44100, 4096)
//	left, right := win[0], win[1]
//
// Requests reaching outside the file are clamped, never rejected, so the
// returned window may be shorter than asked for. AllSamples decodes the whole
// file at once. Decoded blocks are cached, so overlapping windows are cheap.
//
// # ADPCM History
//
// ADPCM prediction in block b+1 starts from the last two samples of block
// b. The ADPC chunk stores these pairs, but the decoder overwrites them with
// the values it actually produced, which keeps the chain exact. A Stream
// tracks how far the chain has been followed and Config.History selects what
// happens on a jump ahead of it:
//
//	s, _ := brstm.Config{History: brstm.HistoryStrict}.Open(data)
//	_, err := s.GetSamples(1_000_000, 10) // ErrOutOfOrderDecode
//
// The default, HistoryCatchUp, quietly decodes the skipped blocks first.
//
// # Streaming
//
// A file can be decoded while it downloads. ProbeHeaderSize tells how many
// bytes the header occupies; once that many have arrived Open succeeds, and
// each larger buffer is handed over with Update. SamplesReady reports how
// much audio can be decoded so far. Reading past it fails with
// ErrTruncatedBuffer.
//
// # Audio Pipeline
//
// NewSource adapts a Stream to audio.Source, and Decoder implements
// audio.Decoder, so containers plug into the resampler and mixers of the
// audio package:
//
//	registry := audio.NewRegistry()
//	registry.Register("brstm", brstm.Decoder{})
package brstm
