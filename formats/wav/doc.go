// SPDX-License-Identifier: EPL-2.0

// Package wav writes and reads 16-bit PCM WAV files through
// github.com/go-audio/wav.
//
// WAV is the export format of the player: a decoded container, or any
// audio.Source, can be saved for inspection in other tools.
//
// # Writing
//
// WriteWAV16 takes planar channels, the layout brstm.Stream returns:
//
//	all, _ := stream.AllSamples()
//	f, _ := os.Create("out.wav")
//	err := wav.WriteWAV16(f, meta.SampleRate, all)
//
// Encode drains a Source instead, so resampled or remixed audio can be
// written without holding it in memory:
//
//	frames, err := wav.Encode(f, audio.NewResampler(src, 48000))
//
// Both need an io.WriteSeeker because the RIFF sizes are patched in when
// the file is closed.
//
// # Reading
//
// ReadWAV16 loads a file back as planar channels, and Decoder implements
// audio.Decoder for use with an audio.Registry.
package wav
