// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/formats/wav"
	"github.com/ik5/brstmplay/internal/audiotest"
	"github.com/ik5/brstmplay/utils"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rewind(t *testing.T, f *os.File) {
	t.Helper()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
}

func TestWriteWAV16_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels [][]int16
	}{
		{"mono", [][]int16{{0, 1, -1, 32767, -32768}}},
		{"stereo", [][]int16{audiotest.Ramp(10000, 0, 3), audiotest.Ramp(10000, 100, -3)}},
		{"three channels", [][]int16{{1, 2}, {3, 4}, {5, 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := tempFile(t)
			if err := wav.WriteWAV16(f, 32000, tt.channels); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}
			rewind(t, f)

			rate, got, err := wav.ReadWAV16(f)
			if err != nil {
				t.Fatalf("ReadWAV16() error = %v", err)
			}
			if rate != 32000 {
				t.Errorf("sample rate = %d, want 32000", rate)
			}
			if len(got) != len(tt.channels) {
				t.Fatalf("got %d channels, want %d", len(got), len(tt.channels))
			}
			for c := range got {
				if !slices.Equal(got[c], tt.channels[c]) {
					t.Errorf("channel %d differs", c)
				}
			}
		})
	}
}

func TestWriteWAV16_Errors(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	if err := wav.WriteWAV16(f, 8000, nil); !errors.Is(err, wav.ErrNoChannels) {
		t.Errorf("no channels error = %v", err)
	}
	if err := wav.WriteWAV16(f, 8000, [][]int16{{1, 2}, {3}}); !errors.Is(err, wav.ErrChannelLength) {
		t.Errorf("ragged channels error = %v", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(22050, 2, 5000, 1000, 8192)
	f := tempFile(t)

	frames, err := wav.Encode(f, src)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if frames != 5000 {
		t.Errorf("Encode() wrote %d frames, want 5000", frames)
	}
	rewind(t, f)

	rate, got, err := wav.ReadWAV16(f)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 22050 || len(got) != 2 || len(got[0]) != 5000 {
		t.Fatalf("read back %d Hz, %d channels", rate, len(got))
	}
	for _, i := range []int{0, 123, 4999} {
		want := utils.Float32ToInt16((float32(i) + 1000) / 8192)
		if got[1][i] != want {
			t.Errorf("right channel frame %d = %d, want %d", i, got[1][i], want)
		}
	}
}

func TestEncode_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := audiotest.NewSilentSource(8000, 1, 100)
	src.Err, src.FailAt = boom, 50

	if _, err := wav.Encode(tempFile(t), src); !errors.Is(err, boom) {
		t.Errorf("Encode() error = %v, want boom", err)
	}
}

func TestDecoder(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	want := [][]int16{audiotest.Ramp(3000, 0, 7), audiotest.Ramp(3000, 0, -7)}
	if err := wav.WriteWAV16(f, 16000, want); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}

	registry := audio.NewRegistry()
	registry.Register("wav", wav.Decoder{})
	d, err := registry.ForPath(f.Name())
	if err != nil {
		t.Fatal(err)
	}

	// a plain reader is buffered internally
	src, err := d.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 16000 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz x %d", src.SampleRate(), src.Channels())
	}
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("odd dst error = %v", err)
	}

	var got []float32
	buf := make([]float32, 1000)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != 6000 {
		t.Fatalf("decoded %d values, want 6000", len(got))
	}
	if got[2*100+1] != utils.Int16ToFloat32(-700) {
		t.Errorf("frame 100 right = %v", got[2*100+1])
	}
}

func TestDecoder_NotWav(t *testing.T) {
	t.Parallel()

	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("RSTM\xfe\xff this is not a wav file at all, really")))
	if !errors.Is(err, wav.ErrNotWavFile) {
		t.Errorf("Decode() error = %v, want ErrNotWavFile", err)
	}
}
