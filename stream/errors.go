// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
)

var ErrNotReady = errors.New("stream: header not loaded yet")

// HTTPStatusError is returned by Open for non-2xx responses.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("stream: GET %s: unexpected status %d", e.URL, e.StatusCode)
}
