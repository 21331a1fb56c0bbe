// SPDX-License-Identifier: EPL-2.0

// Package playback drives a decoded stream the way a media player does:
// play, pause, loop, seek and volume, while the file may still be
// downloading.
package playback

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/formats/brstm"
	"github.com/ik5/brstmplay/utils"
)

// DefaultMargin is the number of frames that must be downloaded past the
// end of a read before playback leaves the buffering state.
const DefaultMargin = 1024

// Progress reports download state. stream.Loader implements it.
type Progress interface {
	SamplesReady() int
	Complete() bool
}

// streamProgress treats the stream buffer as the whole download.
type streamProgress struct{ s *brstm.Stream }

func (p streamProgress) SamplesReady() int { return p.s.SamplesReady() }
func (p streamProgress) Complete() bool {
	return p.s.SamplesReady() >= p.s.Metadata().TotalSamples
}

// Config holds the options of a Session.
type Config struct {
	// Progress defaults to the stream's own SamplesReady.
	Progress Progress
	// Margin defaults to DefaultMargin.
	Margin int
	// Volume is the initial gain; nil means 1.
	Volume *float64
	// NoLoop disables looping even when the container asks for it.
	NoLoop bool
	// Hold keeps the session alive at the end of the stream: it pads with
	// silence instead of returning io.EOF, so Resume starts over.
	Hold   bool
	Logger *slog.Logger
}

// Status is a snapshot of a Session.
type Status struct {
	Position     int
	TotalSamples int
	Loaded       int
	SampleRate   int
	Volume       float64
	Paused       bool
	Buffering    bool
	Looping      bool
	Ended        bool
}

// Session plays one stream. It implements audio.Source, producing frames at
// the stream's sample rate and channel count, and is safe for concurrent
// use by the output goroutine and a controller.
type Session struct {
	mu sync.Mutex

	stream   *brstm.Stream
	meta     brstm.Metadata
	progress Progress
	margin   int
	log      *slog.Logger

	position  int
	volume    float64
	paused    bool
	buffering bool
	looping   bool
	ended     bool
	hold      bool
}

var _ audio.Source = (*Session)(nil)

func New(s *brstm.Stream, cfg Config) *Session {
	meta := s.Metadata()

	p := cfg.Progress
	if p == nil {
		p = streamProgress{s: s}
	}

	margin := cfg.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}

	volume := 1.0
	if cfg.Volume != nil {
		volume = *cfg.Volume
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Session{
		stream:   s,
		meta:     meta,
		progress: p,
		margin:   margin,
		log:      log,
		volume:   clampVolume(volume),
		looping:  meta.LoopFlag && !cfg.NoLoop,
		hold:     cfg.Hold,
	}
}

func (s *Session) SampleRate() int { return s.meta.SampleRate }
func (s *Session) Channels() int   { return s.meta.NumberChannels }
func (s *Session) BufSize() int    { return s.meta.SamplesPerBlock * s.meta.NumberChannels }
func (s *Session) Close() error    { return nil }

// ReadSamples fills dst with the next frames. While buffering or paused it
// writes silence. At the end of a non-looping stream it returns the last
// frames with io.EOF, rewinds to 0 and pauses.
func (s *Session) ReadSamples(dst []float32) (int, error) {
	ch := s.meta.NumberChannels
	if len(dst)%ch != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	frames := len(dst) / ch

	s.mu.Lock()
	defer s.mu.Unlock()

	ready := s.progress.SamplesReady()
	complete := s.progress.Complete()

	buffering := !complete && s.position+frames+s.margin > ready
	if buffering != s.buffering {
		s.buffering = buffering
		s.log.Debug("buffering", "active", buffering, "position", s.position, "loaded", ready)
	}
	if buffering || s.paused {
		clear(dst)
		return len(dst), nil
	}

	end := s.meta.TotalSamples
	if complete {
		// a download that ended early leaves the tail missing
		end = min(end, ready)
	}

	filled := 0
	for filled < frames {
		if s.position >= end {
			if !s.looping || s.meta.LoopStartSample >= end {
				clear(dst[filled*ch:])
				s.position = 0
				s.paused = true
				s.ended = true
				s.log.Debug("end of stream")
				if s.hold {
					return len(dst), nil
				}
				return filled * ch, io.EOF
			}
			s.position = s.meta.LoopStartSample
		}

		n := min(frames-filled, end-s.position)
		if err := s.fill(dst[filled*ch:(filled+n)*ch], s.position, n); err != nil {
			return filled * ch, err
		}
		filled += n
		s.position += n
	}

	return len(dst), nil
}

// fill writes n frames starting at sample pos into dst, one block sized
// window at a time. Caller holds s.mu.
func (s *Session) fill(dst []float32, pos, n int) error {
	ch := s.meta.NumberChannels
	step := s.meta.SamplesPerBlock
	gain := float32(s.volume)

	for got := 0; got < n; {
		win, err := s.stream.GetSamples(pos+got, min(step, n-got))
		if err != nil {
			return fmt.Errorf("playback at sample %d: %w", pos+got, err)
		}

		k := len(win[0])
		if k == 0 {
			return fmt.Errorf("playback at sample %d: %w", pos+got, brstm.ErrTruncatedBuffer)
		}
		for f := range k {
			base := (got + f) * ch
			for c := range ch {
				dst[base+c] = utils.Int16ToFloat32(win[c][f]) * gain
			}
		}
		got += k
	}

	return nil
}

func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	s.ended = false
}

// TogglePause flips the paused state and reports the new one.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	if !s.paused {
		s.ended = false
	}
	return s.paused
}

func (s *Session) SetLoop(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.looping = on
}

// SetVolume sets the gain, clamped to [0, 1].
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clampVolume(v)
}

func clampVolume(v float64) float64 {
	return max(0, min(v, 1))
}

// loaded is the number of leading samples that can be played. Caller holds
// s.mu.
func (s *Session) loaded() int {
	if s.progress.Complete() {
		return min(s.meta.TotalSamples, s.progress.SamplesReady())
	}
	return s.progress.SamplesReady()
}

// Seek moves playback to sample. Positions past the downloaded region are
// refused.
func (s *Session) Seek(sample int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample = max(0, sample)
	if loaded := s.loaded(); sample > 0 && sample >= loaded {
		return fmt.Errorf("%w: sample %d, loaded %d", ErrSeekBeyondLoaded, sample, loaded)
	}

	s.position = sample
	s.ended = false
	return nil
}

// SeekBy moves playback by delta frames, stopping at the ends of the
// downloaded region.
func (s *Session) SeekBy(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := max(0, s.loaded()-1)
	s.position = max(0, min(s.position+delta, limit))
	s.ended = false
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Position:     s.position,
		TotalSamples: s.meta.TotalSamples,
		Loaded:       s.loaded(),
		SampleRate:   s.meta.SampleRate,
		Volume:       s.volume,
		Paused:       s.paused,
		Buffering:    s.buffering,
		Looping:      s.looping,
		Ended:        s.ended,
	}
}
