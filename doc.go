// SPDX-License-Identifier: EPL-2.0

// Package brstmplay decodes and plays RSTM streaming audio containers.
//
// The decoder itself lives in formats/brstm. The packages around it turn
// decoded samples into something audible:
//   - stream loads a container from disk or HTTP while it downloads
//   - playback keeps the player state (position, loop, volume, pause)
//   - audio resamples and remixes sources and feeds the sound device
//   - formats/wav exports decoded audio as 16-bit PCM WAV
//
// # Quick Start
//
// The simplest way to get PCM out of a container is ResampleToPCM16:
//
//	data, _ := os.ReadFile("song.brstm")
//	src, _ := brstm.Decoder{}.Decode(bytes.NewReader(data))
//
//	// 48kHz stereo, interleaved 16-bit PCM
//	samples, rate, _ := brstmplay.ResampleToPCM16(src, 48000, 2, 4096)
//
// # Registry
//
// NewRegistry knows every format of the module, so a file can be opened
// by name:
//
//	dec, err := brstmplay.NewRegistry().ForPath("song.brstm")
//
// # Pipeline
//
// Pipeline builds the resample and remix chain without collecting it,
// which is what playback and WAV export use:
//
//	out, _ := brstmplay.Pipeline(session, 48000, 2)
//	player := ctx.NewPlayer(audio.NewPCM16Reader(out))
//
// The cmd/brstmplay tool wraps all of this in info, export and play
// subcommands.
package brstmplay
