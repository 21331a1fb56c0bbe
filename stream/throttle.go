// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
	burst   int
}

// Throttle limits reads from r to bytesPerSecond, in bursts of a tenth of a
// second. A non-positive rate returns r unchanged.
func Throttle(ctx context.Context, r io.Reader, bytesPerSecond int) io.Reader {
	if bytesPerSecond <= 0 {
		return r
	}

	burst := max(bytesPerSecond/10, 1)
	return &throttledReader{
		ctx:     ctx,
		r:       r,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
		burst:   burst,
	}
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) > t.burst {
		p = p[:t.burst]
	}

	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}

	return n, err
}
