// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/utils"
)

const (
	bitDepth    = 16
	formatPCM   = 1
	chunkFrames = 4096
)

// WriteWAV16 writes planar int16 channels as an interleaved 16-bit PCM WAV.
// All channels must have the same length.
func WriteWAV16(w io.WriteSeeker, sampleRate int, channels [][]int16) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return ErrChannelLength
		}
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, len(channels), formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}

	// one write always happens so the header is emitted for empty input
	for start := 0; start == 0 || start < frames; start += chunkFrames {
		end := min(start+chunkFrames, frames)

		buf.Data = buf.Data[:0]
		for f := start; f < end; f++ {
			for _, ch := range channels {
				buf.Data = append(buf.Data, int(ch[f]))
			}
		}

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav: writing frames %d-%d: %w", start, end, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: finishing file: %w", err)
	}

	return nil
}

// Encode drains src into a 16-bit PCM WAV and returns the number of frames
// written.
func Encode(w io.WriteSeeker, src audio.Source) (int, error) {
	ch := src.Channels()
	enc := wav.NewEncoder(w, src.SampleRate(), bitDepth, ch, formatPCM)

	samples := make([]float32, chunkFrames*ch)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: src.SampleRate()},
		Data:           make([]int, 0, len(samples)),
		SourceBitDepth: bitDepth,
	}

	frames := 0
	for first := true; ; first = false {
		n, err := src.ReadSamples(samples)
		if n > 0 || first {
			buf.Data = buf.Data[:0]
			for _, x := range samples[:n] {
				buf.Data = append(buf.Data, int(utils.Float32ToInt16(x)))
			}
			if werr := enc.Write(buf); werr != nil {
				return frames, fmt.Errorf("wav: writing: %w", werr)
			}
			frames += n / ch
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("wav: reading source: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("wav: finishing file: %w", err)
	}

	return frames, nil
}
