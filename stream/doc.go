// SPDX-License-Identifier: EPL-2.0

// Package stream downloads RSTM containers and makes them playable before
// the download finishes.
//
// A Loader consumes any io.Reader. As soon as the header has arrived it
// opens a brstm.Stream on the partial buffer and keeps feeding it with
// Update; SamplesReady tells a player how far it may go:
//
//	body, size, err := stream.Open(ctx, nil, url)
//	loader := stream.NewLoader(stream.Config{SizeHint: int(size)})
//	go loader.Run(ctx, body)
//	<-loader.Ready()
//	s, err := loader.Stream()
//
// Fetch is the non-streaming path: it downloads the whole file with retries.
// Throttle slows a reader down, which is handy to exercise the streaming
// path with local files.
package stream
