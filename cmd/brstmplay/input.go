// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ik5/brstmplay/formats/brstm"
	"github.com/ik5/brstmplay/stream"
)

const fetchTimeout = 60 * time.Second

// inputOptions selects how an input is read.
type inputOptions struct {
	// throttle caps the read rate in bytes per second; 0 disables it.
	throttle int
	// legacy downloads URLs completely before decoding starts.
	legacy bool
}

type readCloser struct {
	io.Reader
	io.Closer
}

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// openInput opens a file or URL and returns the reader with its size, -1 when
// unknown.
func openInput(ctx context.Context, name string, opts inputOptions) (io.ReadCloser, int64, error) {
	var (
		rc   io.ReadCloser
		size int64
	)

	switch {
	case isURL(name) && opts.legacy:
		data, err := stream.Fetch(ctx, name, fetchTimeout)
		if err != nil {
			return nil, 0, err
		}
		rc, size = io.NopCloser(bytes.NewReader(data)), int64(len(data))

	case isURL(name):
		body, n, err := stream.Open(ctx, nil, name)
		if err != nil {
			return nil, 0, err
		}
		rc, size = body, n

	default:
		f, err := os.Open(name)
		if err != nil {
			return nil, 0, err
		}
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, 0, fmt.Errorf("stat %s: %w", name, err)
		}
		rc, size = f, st.Size()
	}

	if opts.throttle > 0 {
		rc = readCloser{Reader: stream.Throttle(ctx, rc, opts.throttle), Closer: rc}
	}

	return rc, size, nil
}

// loadStream reads the whole input and opens it.
func loadStream(ctx context.Context, name string, cfg brstm.Config, logger *slog.Logger) (*brstm.Stream, error) {
	rc, size, err := openInput(ctx, name, inputOptions{})
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	loader := stream.NewLoader(stream.Config{Decoder: cfg, SizeHint: int(size), Logger: logger})
	if err := loader.Run(ctx, rc); err != nil {
		return nil, err
	}

	return loader.Stream()
}

func parseHistory(s string) (brstm.HistoryPolicy, error) {
	for _, p := range []brstm.HistoryPolicy{brstm.HistoryCatchUp, brstm.HistoryStrict, brstm.HistorySeeded} {
		if p.String() == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown history policy %q (catch-up, strict, seeded)", errUsage, s)
}
