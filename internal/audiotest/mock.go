// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: synthetic
// audio sources and an in-memory RSTM container builder.
package audiotest

import (
	"io"
	"math"
)

// Waveform yields the value of channel ch at frame i.
type Waveform func(i, ch int) float32

// MockSource generates frames from a Waveform. It satisfies audio.Source
// without importing it.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	wave       Waveform

	// Err, when set, is returned by ReadSamples once FailAt frames were
	// produced.
	Err    error
	FailAt int

	// Closed is set by Close.
	Closed bool
}

func NewMockSource(sampleRate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		wave:       wave,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(i, _ int) float32 {
		t := float64(i) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewRampSource yields channel ch of frame i as (i + ch*offset) / scale, which
// makes channel routing easy to assert.
func NewRampSource(sampleRate, channels, frames int, offset, scale float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(i, ch int) float32 {
		return (float32(i) + float32(ch)*offset) / scale
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Reset rewinds to the first frame.
func (m *MockSource) Reset() { m.pos = 0 }

// Position reports how many frames were produced so far.
func (m *MockSource) Position() int { return m.pos }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.Err != nil && m.pos >= m.FailAt {
		return 0, m.Err
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	limit := m.frames
	if m.Err != nil {
		limit = min(limit, m.FailAt)
	}
	n := min(len(dst)/m.channels, limit-m.pos)

	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.wave(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
