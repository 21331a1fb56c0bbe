// SPDX-License-Identifier: EPL-2.0

package brstmplay

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/formats/brstm"
	"github.com/ik5/brstmplay/formats/wav"
	"github.com/ik5/brstmplay/utils"
)

// NewRegistry returns an audio.Registry with every decoder of the module:
// "brstm" and "rstm" for stream containers and "wav" for exported files.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("brstm", brstm.Decoder{})
	r.Register("rstm", brstm.Decoder{})
	r.Register("wav", wav.Decoder{})

	return r
}

// Pipeline resamples src to targetRate and remixes it to channels. A
// targetRate of 0 keeps the source rate and channels of 0 keeps the source
// layout.
func Pipeline(src audio.Source, targetRate, channels int) (audio.Source, error) {
	out := src
	if targetRate > 0 && targetRate != src.SampleRate() {
		out = audio.NewResampler(out, targetRate)
	}
	if channels > 0 && channels != out.Channels() {
		mixed, err := audio.NewChannelMixer(out, channels)
		if err != nil {
			return nil, err
		}
		out = mixed
	}

	return out, nil
}

// ResampleToPCM16 runs src through Pipeline and collects the result as
// interleaved 16-bit PCM. It returns the samples and the output rate.
func ResampleToPCM16(src audio.Source, targetRate, channels, bufferSize int) ([]int16, int, error) {
	p, err := Pipeline(src, targetRate, channels)
	if err != nil {
		return nil, 0, err
	}

	// a buffer holds whole frames
	bufferSize -= bufferSize % p.Channels()
	if bufferSize <= 0 {
		bufferSize = p.Channels() * 1024
	}

	pcm16 := make([]int16, 0, p.SampleRate()*p.Channels())
	buf := make([]float32, bufferSize)

	for {
		n, err := p.ReadSamples(buf)
		for _, x := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(x))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, p.SampleRate(), fmt.Errorf("reading pipeline: %w", err)
		}
	}

	return pcm16, p.SampleRate(), nil
}

// ResampleToMono16 is ResampleToPCM16 with a single output channel.
func ResampleToMono16(src audio.Source, targetRate, bufferSize int) ([]int16, int, error) {
	return ResampleToPCM16(src, targetRate, 1, bufferSize)
}
