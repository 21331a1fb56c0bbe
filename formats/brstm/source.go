// SPDX-License-Identifier: EPL-2.0

package brstm

import (
	"io"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/utils"
)

// source streams a Stream front to back as interleaved float32.
type source struct {
	s       *Stream
	meta    Metadata
	pos     int
	bufSize int
}

// NewSource wraps s as an audio.Source. Reads start at sample 0 and end with
// io.EOF after TotalSamples frames.
func NewSource(s *Stream) audio.Source {
	m := s.Metadata()
	return &source{
		s:       s,
		meta:    m,
		bufSize: m.SamplesPerBlock * m.NumberChannels,
	}
}

func (src *source) SampleRate() int { return src.meta.SampleRate }
func (src *source) Channels() int   { return src.meta.NumberChannels }
func (src *source) BufSize() int    { return src.bufSize }
func (src *source) Close() error    { return nil }

func (src *source) ReadSamples(dst []float32) (int, error) {
	channels := src.meta.NumberChannels
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if src.pos >= src.meta.TotalSamples {
		return 0, io.EOF
	}

	frames := len(dst) / channels
	if frames == 0 {
		return 0, nil
	}

	win, err := src.s.GetSamples(src.pos, frames)
	if err != nil {
		return 0, err
	}

	n := len(win[0])
	for f := range n {
		base := f * channels
		for c := range channels {
			dst[base+c] = utils.Int16ToFloat32(win[c][f])
		}
	}
	src.pos += n

	return n * channels, nil
}
