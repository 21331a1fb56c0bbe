// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"testing"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/internal/audiotest"
)

func TestChannelMixer(t *testing.T) {
	t.Parallel()

	// Frame i, channel ch holds (i + 100*ch) / 1000.
	tests := []struct {
		name string
		in   int
		out  int
		want []float32 // first two output frames
	}{
		{"stereo to mono", 2, 1, []float32{0.05, 0.051}},
		{"three to mono", 3, 1, []float32{0.1, 0.101}},
		{"mono to stereo", 1, 2, []float32{0, 0, 0.001, 0.001}},
		{"stereo passthrough", 2, 2, []float32{0, 0.1, 0.001, 0.101}},
		{"quad to stereo", 4, 2, []float32{0, 0.1, 0.001, 0.101}},
		{"stereo to quad", 2, 4, []float32{0, 0.1, 0.1, 0.1, 0.001, 0.101, 0.101, 0.101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewRampSource(32000, tt.in, 10, 100, 1000)
			m, err := audio.NewChannelMixer(src, tt.out)
			if err != nil {
				t.Fatalf("NewChannelMixer() error = %v", err)
			}
			if m.Channels() != tt.out {
				t.Errorf("Channels() = %d, want %d", m.Channels(), tt.out)
			}
			if m.SampleRate() != 32000 {
				t.Errorf("SampleRate() = %d, want 32000", m.SampleRate())
			}

			buf := make([]float32, 2*tt.out)
			n, err := m.ReadSamples(buf)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() = %d, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if diff := buf[i] - w; diff > 1e-6 || diff < -1e-6 {
					t.Errorf("buf[%d] = %v, want %v", i, buf[i], w)
				}
			}
		})
	}
}

func TestChannelMixer_Drains(t *testing.T) {
	t.Parallel()

	m, err := audio.NewChannelMixer(audiotest.NewSilentSource(32000, 2, 1001), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(drain(t, m, 256)); got != 1001 {
		t.Errorf("drained %d values, want 1001", got)
	}
}

func TestChannelMixer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := audio.NewChannelMixer(audiotest.NewSilentSource(32000, 2, 1), 0); !errors.Is(err, audio.ErrChannelCount) {
		t.Errorf("NewChannelMixer(0) error = %v, want ErrChannelCount", err)
	}

	m, err := audio.NewChannelMixer(audiotest.NewSilentSource(32000, 1, 10), 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}
