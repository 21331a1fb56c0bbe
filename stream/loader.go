// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/brstmplay/formats/brstm"
)

// DefaultChunkSize is the read size used when Config.ChunkSize is zero.
const DefaultChunkSize = 32 << 10

// the header size field sits below this offset
const probeThreshold = 0x80

type Config struct {
	Decoder   brstm.Config
	ChunkSize int
	// SizeHint preallocates the buffer, usually from Content-Length.
	SizeHint int
	Logger   *slog.Logger
}

// Loader accumulates a container while it downloads. It implements
// playback.Progress.
type Loader struct {
	cfg Config
	log *slog.Logger

	mu         sync.Mutex
	buf        []byte
	headerSize int
	stream     *brstm.Stream
	complete   bool
	err        error

	ready     chan struct{}
	readyOnce sync.Once
}

func NewLoader(cfg Config) *Loader {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Loader{
		cfg:   cfg,
		log:   log,
		buf:   make([]byte, 0, max(cfg.SizeHint, 0)),
		ready: make(chan struct{}),
	}
}

// Ready is closed once Stream can be called: the header was parsed, or
// loading failed.
func (l *Loader) Ready() <-chan struct{} { return l.ready }

func (l *Loader) markReady() {
	l.readyOnce.Do(func() { close(l.ready) })
}

// Run reads r until EOF, an error or ctx is done. It returns the first
// error, which Err reports afterwards too.
func (l *Loader) Run(ctx context.Context, r io.Reader) error {
	chunk := make([]byte, l.cfg.ChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return l.fail(err)
		}

		n, err := r.Read(chunk)
		if n > 0 {
			if ierr := l.ingest(chunk[:n]); ierr != nil {
				return l.fail(ierr)
			}
		}

		if errors.Is(err, io.EOF) {
			return l.finish()
		}
		if err != nil {
			return l.fail(fmt.Errorf("stream: reading: %w", err))
		}
	}
}

func (l *Loader) ingest(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// bytes below len are never rewritten, so the stream may keep reading
	// its old slice until Update
	l.buf = append(l.buf, p...)

	if l.stream != nil {
		return l.stream.Update(l.buf)
	}

	if l.headerSize == 0 && len(l.buf) > probeThreshold {
		size, err := brstm.ProbeHeaderSize(l.buf)
		switch {
		case errors.Is(err, brstm.ErrTruncatedBuffer):
			return nil
		case err != nil:
			return err
		}
		l.headerSize = size
		l.log.Debug("header size probed", "bytes", size)
	}

	if l.headerSize != 0 && len(l.buf) > l.headerSize {
		return l.open(false)
	}

	return nil
}

// open parses the header. Until the download ends a truncated header only
// means more bytes are needed. Caller holds l.mu.
func (l *Loader) open(final bool) error {
	s, err := l.cfg.Decoder.Open(l.buf)
	if err != nil {
		if !final && errors.Is(err, brstm.ErrTruncatedBuffer) {
			return nil
		}
		return err
	}

	l.stream = s
	m := s.Metadata()
	l.log.Info("stream opened",
		"codec", m.Codec,
		"channels", m.NumberChannels,
		"sample_rate", m.SampleRate,
		"samples", m.TotalSamples,
		"loaded", len(l.buf))
	l.markReady()

	return nil
}

func (l *Loader) finish() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.complete = true
	if l.stream == nil {
		if err := l.open(true); err != nil {
			l.err = err
			l.markReady()
			return err
		}
	}
	l.log.Info("file finished streaming", "bytes", len(l.buf))

	return nil
}

func (l *Loader) fail(err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err == nil {
		l.err = err
	}
	l.log.Error("loading failed", "error", err, "loaded", len(l.buf))
	l.markReady()

	return l.err
}

// Stream returns the opened stream, the load error, or ErrNotReady before
// Ready is closed.
func (l *Loader) Stream() (*brstm.Stream, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stream != nil {
		return l.stream, nil
	}
	if l.err != nil {
		return nil, l.err
	}
	return nil, ErrNotReady
}

// SamplesReady reports how many leading samples per channel are loaded.
func (l *Loader) SamplesReady() int {
	l.mu.Lock()
	s := l.stream
	l.mu.Unlock()

	if s == nil {
		return 0
	}
	return s.SamplesReady()
}

// Complete reports whether the reader is exhausted or failed; no more
// samples will arrive.
func (l *Loader) Complete() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.complete || l.err != nil
}

// Loaded reports the number of bytes received.
func (l *Loader) Loaded() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buf)
}

func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.err
}
