// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/brstmplay/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom
// interpolation over a sliding window of four frames. Channel count is kept.
// When downsampling a one-pole low-pass filter runs on the input first.
type Resampler struct {
	src      Source
	srcRate  int
	rate     int
	channels int

	// win[0..3] hold frames t-1, t, t+1, t+2; output falls between win[1]
	// and win[2] at offset acc/rate. Integer phase keeps long streams from
	// drifting.
	win [4][]float32
	acc int
	// pad counts the trailing window slots that repeat the last real frame.
	pad    int
	primed bool

	in      []float32
	inPos   int
	inLen   int
	drained bool

	filter  bool
	settled bool
	alpha   float32
	history []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	size := max(src.BufSize(), channels)
	size -= size % channels

	r := &Resampler{
		src:      src,
		srcRate:  src.SampleRate(),
		rate:     dstRate,
		channels: channels,
		in:       make([]float32, size),
		filter:   src.SampleRate() > dstRate,
		alpha:    0.5,
		history:  make([]float32, channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

// pull copies the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) pull(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.drained {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.drained = true
		} else if err != nil {
			return false, fmt.Errorf("resampler: %w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.filter {
		if !r.settled {
			// Start the filter settled on the first frame.
			copy(r.history, dst)
			r.settled = true
		}
		for c, x := range dst {
			y := r.alpha*x + (1-r.alpha)*r.history[c]
			r.history[c] = y
			dst[c] = y
		}
	}

	return true, nil
}

// prime loads the first frames. Slots past the end of a short source repeat
// the last frame.
func (r *Resampler) prime() error {
	ok, err := r.pull(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.win[0], r.win[1])

	for i := 2; i < 4; i++ {
		if r.pad > 0 {
			copy(r.win[i], r.win[i-1])
			r.pad++
			continue
		}

		ok, err := r.pull(r.win[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.win[i], r.win[i-1])
			r.pad++
		}
	}

	r.primed = true
	return nil
}

// advance slides the window by one source frame.
func (r *Resampler) advance() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	r.win[3] = first

	if r.pad > 0 {
		copy(r.win[3], r.win[2])
		r.pad++
		return nil
	}

	ok, err := r.pull(r.win[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.win[3], r.win[2])
		r.pad++
	}

	return nil
}

// ReadSamples fills dst with frames at the target rate. len(dst) must be a
// multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.acc >= r.rate {
			r.acc -= r.rate
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		// win[1] is padding: every real frame has been consumed.
		if r.pad >= 3 {
			return written * r.channels, io.EOF
		}

		t := float32(r.acc) / float32(r.rate)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], t)
		}

		written++
		r.acc += r.srcRate
	}

	return written * r.channels, nil
}
