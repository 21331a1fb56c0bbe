// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrSeekBeyondLoaded is returned by Seek for a position whose samples
	// have not been downloaded yet.
	ErrSeekBeyondLoaded = errors.New("playback: seek beyond loaded samples")
)
