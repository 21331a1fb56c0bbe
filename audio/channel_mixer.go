// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer changes the channel count of a Source. Mixing down to one
// channel averages every input channel. For more than one output channel,
// output o copies input min(o, in-1): mono is duplicated, surplus input
// channels are dropped.
type ChannelMixer struct {
	src Source
	in  int
	out int
	buf []float32
}

// NewChannelMixer wraps src so it yields channels per frame.
func NewChannelMixer(src Source, channels int) (*ChannelMixer, error) {
	if channels <= 0 || src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrChannelCount, src.Channels(), channels)
	}

	return &ChannelMixer{
		src: src,
		in:  src.Channels(),
		out: channels,
	}, nil
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error    { return m.src.Close() }

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if m.in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	if need := frames * m.in; cap(m.buf) < need {
		m.buf = make([]float32, need)
	}
	buf := m.buf[:frames*m.in]

	n, err := m.src.ReadSamples(buf)
	got := n / m.in
	for f := range got {
		frame := buf[f*m.in : (f+1)*m.in]
		dstFrame := dst[f*m.out : (f+1)*m.out]

		if m.out == 1 {
			var sum float32
			for _, x := range frame {
				sum += x
			}
			dstFrame[0] = sum / float32(m.in)
			continue
		}

		for o := range dstFrame {
			dstFrame[o] = frame[min(o, m.in-1)]
		}
	}

	return got * m.out, err
}
