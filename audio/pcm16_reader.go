// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"

	"github.com/ik5/brstmplay/utils"
)

// PCM16Reader exposes a Source as an io.Reader of interleaved signed 16-bit
// little-endian samples, the layout audio output devices consume.
type PCM16Reader struct {
	src     Source
	samples []float32
	bytes   []byte
	pending []byte
	err     error
}

func NewPCM16Reader(src Source) *PCM16Reader {
	size := max(src.BufSize(), src.Channels())
	size -= size % src.Channels()

	return &PCM16Reader{
		src:     src,
		samples: make([]float32, size),
		bytes:   make([]byte, 0, size*2),
	}
}

// Read never splits the stream: bytes left over from one conversion are
// returned by the next call. The source's error, io.EOF included, is
// reported once all converted bytes have been read.
func (r *PCM16Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}

		n, err := r.src.ReadSamples(r.samples)
		r.pending = r.bytes[:0]
		for _, x := range r.samples[:n] {
			r.pending = binary.LittleEndian.AppendUint16(r.pending, uint16(utils.Float32ToInt16(x)))
		}
		r.err = err
		if len(r.pending) == 0 && err == nil {
			return 0, nil
		}
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]

	return n, nil
}

func (r *PCM16Reader) Close() error { return r.src.Close() }
