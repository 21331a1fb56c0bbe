// SPDX-License-Identifier: EPL-2.0

package brstm

import (
	"fmt"
	"io"

	"github.com/ik5/brstmplay/audio"
)

// Decoder reads a whole container from a reader and returns it as an
// audio.Source. It satisfies audio.Decoder.
type Decoder struct {
	History HistoryPolicy
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading brstm data: %w", err)
	}

	s, err := Config{History: d.History}.Open(data)
	if err != nil {
		return nil, err
	}

	return NewSource(s), nil
}
