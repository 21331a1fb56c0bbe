// SPDX-License-Identifier: EPL-2.0

// Package output plays interleaved 16-bit PCM on the default sound device
// through oto.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultLatency is the device buffer length used when none is given.
const DefaultLatency = 100 * time.Millisecond

// pollInterval is how often Wait checks whether the player drained.
const pollInterval = 50 * time.Millisecond

var ErrInvalidFormat = errors.New("output: invalid sample rate or channel count")

// Format describes the PCM handed to the device.
type Format struct {
	SampleRate int
	Channels   int
	// Latency is the device buffer length. Zero means DefaultLatency.
	Latency time.Duration
}

func (f Format) options() (*oto.NewContextOptions, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 || f.Channels > 2 {
		return nil, fmt.Errorf("%w: %d Hz x %d", ErrInvalidFormat, f.SampleRate, f.Channels)
	}

	latency := f.Latency
	if latency <= 0 {
		latency = DefaultLatency
	}

	return &oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   latency,
	}, nil
}

// Device owns the oto context. oto allows one context per process, so a
// program opens a single Device and plays through it.
type Device struct {
	ctx    *oto.Context
	format Format
	player *oto.Player
	log    *slog.Logger
}

// Open initializes the sound device and waits until it is ready.
func Open(f Format, logger *slog.Logger) (*Device, error) {
	op, err := f.options()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("output: creating oto context: %w", err)
	}
	<-ready

	logger.Info("audio output initialized", "rate", f.SampleRate, "channels", f.Channels)

	return &Device{ctx: ctx, format: f, log: logger}, nil
}

// Play starts pulling PCM from r. A previous player is closed first.
func (d *Device) Play(r io.Reader) error {
	if d.player != nil {
		if err := d.player.Close(); err != nil {
			return fmt.Errorf("output: closing player: %w", err)
		}
	}

	d.player = d.ctx.NewPlayer(r)
	d.player.Play()

	return nil
}

// Wait blocks until the player drained its reader or ctx is done.
func (d *Device) Wait(ctx context.Context) error {
	if d.player == nil {
		return nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for d.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return d.player.Err()
}

// Close stops playback and suspends the device.
func (d *Device) Close() error {
	var errs []error
	if d.player != nil {
		errs = append(errs, d.player.Close())
		d.player = nil
	}
	errs = append(errs, d.ctx.Suspend())

	return errors.Join(errs...)
}
