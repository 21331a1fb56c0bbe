// SPDX-License-Identifier: EPL-2.0

package brstmplay_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/brstmplay"
	"github.com/ik5/brstmplay/internal/audiotest"
)

// Example decodes a stereo container and resamples it to 48kHz.
func Example() {
	// one second of 32kHz stereo
	left := make([]int16, 32000)
	right := make([]int16, 32000)
	data := audiotest.PCM16(false, 32000, 1024, [][]int16{left, right}).Bytes()

	dec, err := brstmplay.NewRegistry().ForPath("song.brstm")
	if err != nil {
		fmt.Println(err)
		return
	}
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Println(err)
		return
	}

	pcm, rate, err := brstmplay.ResampleToPCM16(src, 48000, 2, 4096)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d frames at %d Hz\n", len(pcm)/2, rate)
	// Output: 48000 frames at 48000 Hz
}
