// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/internal/audiotest"
)

func drain(t *testing.T, src audio.Source, chunk int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, chunk)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r := audio.NewResampler(audiotest.NewSilentSource(32000, 2, 10), 48000)
	if r.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
	if r.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096", r.BufSize())
	}
}

func TestResampler_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		channels int
		frames   int
		want     int
	}{
		{"same rate", 32000, 32000, 1, 1000, 1000},
		{"same rate stereo", 32000, 32000, 2, 1000, 2000},
		{"downsample by six", 48000, 8000, 1, 48000, 8000},
		{"downsample fractional", 44100, 16000, 1, 44100, 16000},
		{"upsample by six", 8000, 48000, 1, 8000, 48000},
		{"upsample stereo", 32000, 48000, 2, 3200, 9600},
		{"single frame", 32000, 32000, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.from, tt.channels, tt.frames, 440)
			r := audio.NewResampler(src, tt.to)

			got := drain(t, r, 4096*tt.channels)
			if len(got) != tt.want {
				t.Errorf("resampled %d values, want %d", len(got), tt.want)
			}
		})
	}
}

func TestResampler_SameRateIsIdentity(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(32000, 2, 500, 1000, 4096)
	want := drain(t, audiotest.NewRampSource(32000, 2, 500, 1000, 4096), 1000)

	got := drain(t, audio.NewResampler(src, 32000), 64)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResampler_ConstantStaysConstant(t *testing.T) {
	t.Parallel()

	for _, to := range []int{8000, 22050, 96000} {
		src := audiotest.NewConstantSource(44100, 1, 4410, 0.5)
		for i, v := range drain(t, audio.NewResampler(src, to), 512) {
			if math.Abs(float64(v-0.5)) > 1e-5 {
				t.Fatalf("rate %d: value %d = %v, want 0.5", to, i, v)
			}
		}
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := audio.NewResampler(audiotest.NewSilentSource(32000, 2, 10), 16000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	r := audio.NewResampler(audiotest.NewSilentSource(32000, 1, 0), 16000)
	n, err := r.ReadSamples(make([]float32, 16))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := audiotest.NewSilentSource(32000, 1, 100)
	src.Err, src.FailAt = boom, 0

	r := audio.NewResampler(src, 16000)
	if _, err := r.ReadSamples(make([]float32, 16)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want wrapped boom", err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(32000, 1, 10)
	if err := audio.NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.Closed {
		t.Error("Close() did not close the source")
	}
}

func BenchmarkResampler_32kTo48k(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		r := audio.NewResampler(audiotest.NewSineSource(32000, 2, 32000, 440), 48000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
