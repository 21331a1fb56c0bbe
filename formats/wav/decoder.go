// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/utils"
)

// pcmReader is the part of wav.Decoder a source needs.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps a go-audio decoder as an audio.Source.
type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return chunkFrames * s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst)), Format: s.dec.Format()}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i := range n {
		dst[i] = utils.Int16ToFloat32(int16(s.intBuf.Data[i]))
	}

	switch {
	case errors.Is(err, io.EOF), err == nil && n < len(dst):
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("wav: decoding: %w", err)
	}

	return n, nil
}

func open(rs io.ReadSeeker) (*wav.Decoder, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.BitDepth != bitDepth || dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: format %d, %d bits", ErrOnlyPCM16bitSupported, dec.WavAudioFormat, dec.BitDepth)
	}
	return dec, nil
}

// Decoder reads 16-bit PCM WAV files. It satisfies audio.Decoder.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec, err := open(rs)
	if err != nil {
		return nil, err
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
	}, nil
}

// ReadWAV16 loads a whole 16-bit PCM WAV as planar channels.
func ReadWAV16(rs io.ReadSeeker) (sampleRate int, channels [][]int16, err error) {
	dec, err := open(rs)
	if err != nil {
		return 0, nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, nil, fmt.Errorf("wav: decoding: %w", err)
	}

	ch := int(dec.NumChans)
	frames := len(buf.Data) / ch
	channels = make([][]int16, ch)
	for c := range channels {
		channels[c] = make([]int16, frames)
		for f := range frames {
			channels[c][f] = int16(buf.Data[f*ch+c])
		}
	}

	return int(dec.SampleRate), channels, nil
}
