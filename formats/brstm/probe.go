// SPDX-License-Identifier: EPL-2.0

package brstm

// MinStreamingHeaderSize is used as the header size when the declared audio
// data offset is implausibly small.
const MinStreamingHeaderSize = 0x2000

// smallest audio data offset a well formed header can declare
const minAudioDataOffset = 0x90

// ProbeHeaderSize reads the audio data offset from the start of a file that
// is still arriving. Once more than that many bytes are buffered, Open can
// parse the header and the sample data begins.
//
// It returns ErrTruncatedBuffer while prefix is too short to tell, and
// ErrInvalidContainer if prefix is not an RSTM container.
func ProbeHeaderSize(prefix []byte) (int, error) {
	idx, v, err := resolveIndex(prefix)
	if err != nil {
		return 0, err
	}

	size, err := v.uint(idx.part1+p1AudioDataOffset, 4)
	if err != nil {
		return 0, err
	}

	if size < minAudioDataOffset {
		return MinStreamingHeaderSize, nil
	}

	return int(size), nil
}
