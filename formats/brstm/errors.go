// SPDX-License-Identifier: EPL-2.0

package brstm

import "errors"

var (
	// ErrInvalidContainer indicates the buffer does not hold an RSTM container,
	// or its header describes an impossible layout.
	ErrInvalidContainer = errors.New("brstm: invalid container")

	// ErrTruncatedBuffer indicates a derived offset points past the end of the
	// current buffer. While streaming this usually means the bytes have not
	// arrived yet.
	ErrTruncatedBuffer = errors.New("brstm: truncated buffer")

	// ErrUnsupportedCodec indicates a codec id outside 8-bit PCM, 16-bit PCM
	// and 4-bit ADPCM.
	ErrUnsupportedCodec = errors.New("brstm: unsupported codec")

	// ErrOutOfOrderDecode is returned under HistoryStrict when an ADPCM block
	// is requested before all of its predecessors were decoded.
	ErrOutOfOrderDecode = errors.New("brstm: ADPCM block requested out of order")
)
