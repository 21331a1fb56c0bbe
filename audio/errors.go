// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
	ErrChannelCount   = errors.New("channel count must be positive")
)

// UnknownFormatError is returned by Registry.ForPath.
type UnknownFormatError struct {
	Name string
	Ext  string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s: %q (extension %q)", ErrUnknownFormat, e.Name, e.Ext)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
