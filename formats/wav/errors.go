// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrChannelLength         = errors.New("channels differ in length")
	ErrNoChannels            = errors.New("no channels to write")
)
