// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/internal/audiotest"
)

type stubDecoder struct{ name string }

func (d *stubDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSilentSource(32000, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	d := &stubDecoder{name: "brstm"}
	registry.Register("brstm", d)

	got, ok := registry.Get("brstm")
	if !ok {
		t.Fatal("Get() did not find registered decoder")
	}
	if got != d {
		t.Error("Get() returned a different decoder")
	}

	if _, ok := registry.Get("BRSTM"); !ok {
		t.Error("Get() is case sensitive")
	}
	if _, ok := registry.Get("wav"); ok {
		t.Error("Get() found an unregistered format")
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	d := &stubDecoder{name: "brstm"}
	registry.Register("brstm", d)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain file", "music/track.brstm", false},
		{"upper case extension", "TRACK.BRSTM", false},
		{"url with query", "https://example.com/a/track.brstm?dl=1", false},
		{"url with fragment", "https://example.com/track.brstm#t=3", false},
		{"other extension", "track.wav", true},
		{"no extension", "track", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := registry.ForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, audio.ErrUnknownFormat) {
					t.Fatalf("ForPath(%q) error = %v, want ErrUnknownFormat", tt.path, err)
				}
				var ufe *audio.UnknownFormatError
				if !errors.As(err, &ufe) {
					t.Fatalf("ForPath(%q) error is not *UnknownFormatError", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForPath(%q) error = %v", tt.path, err)
			}
			if got != d {
				t.Errorf("ForPath(%q) returned wrong decoder", tt.path)
			}
		})
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	registry.Register("wav", &stubDecoder{})
	registry.Register("BRSTM", &stubDecoder{})

	want := []string{"brstm", "wav"}
	if got := registry.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	d := &stubDecoder{}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("brstm", d)
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.Get("brstm")
		}()
	}
	wg.Wait()

	if got, ok := registry.Get("brstm"); !ok || got != d {
		t.Error("registry lost the decoder under concurrent use")
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	registry := audio.NewRegistry()
	registry.Register("brstm", &stubDecoder{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = registry.Get("brstm")
	}
}
