// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/ik5/brstmplay/formats/brstm"
)

func runInfo(ctx context.Context, args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	channels := fs.Bool("channels", false, "also print the ADPCM parameters of every channel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: brstmplay info [-channels] <file|url>")
		return errUsage
	}

	s, err := loadStream(ctx, fs.Arg(0), brstm.Config{}, logger)
	if err != nil {
		return err
	}

	writeInfo(stdout, s.Metadata())
	if *channels {
		writeChannels(stdout, s.ChannelInfo())
	}

	return nil
}

func writeInfo(w io.Writer, m brstm.Metadata) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	duration := time.Duration(0)
	if m.SampleRate > 0 {
		duration = time.Duration(m.TotalSamples) * time.Second / time.Duration(m.SampleRate)
	}

	fmt.Fprintf(tw, "Codec:\t%s\n", m.Codec)
	fmt.Fprintf(tw, "Byte order:\t%s\n", m.Endianness)
	fmt.Fprintf(tw, "Channels:\t%d\n", m.NumberChannels)
	fmt.Fprintf(tw, "Tracks:\t%d (type %d)\n", m.NumberTracks, m.TrackDescriptionType)
	fmt.Fprintf(tw, "Sample rate:\t%d Hz\n", m.SampleRate)
	fmt.Fprintf(tw, "Samples:\t%d (%s)\n", m.TotalSamples, duration.Round(time.Millisecond))
	if m.LoopFlag {
		fmt.Fprintf(tw, "Loop:\tfrom sample %d\n", m.LoopStartSample)
	} else {
		fmt.Fprintf(tw, "Loop:\tno\n")
	}
	fmt.Fprintf(tw, "Blocks:\t%d x %d bytes, %d samples each\n", m.TotalBlocks, m.BlockSize, m.SamplesPerBlock)
	fmt.Fprintf(tw, "Final block:\t%d bytes (%d padded), %d samples\n",
		m.FinalBlockSize, m.FinalBlockSizeWithPadding, m.TotalSamplesInFinalBlock)
	fmt.Fprintf(tw, "Audio data:\t0x%x\n", m.AudioDataOffset)
	fmt.Fprintf(tw, "File size:\t%d bytes\n", m.FileSize)
}

func writeChannels(w io.Writer, info []brstm.ChannelInfo) {
	for c, ci := range info {
		fmt.Fprintf(w, "\nChannel %d:\n", c)
		fmt.Fprintf(w, "  coefficients: %v\n", ci.Coefficients)
		fmt.Fprintf(w, "  gain %d, scale 0x%02x, history %d %d\n",
			ci.Gain, ci.InitialPredictorScale, ci.HistorySample1, ci.HistorySample2)
		fmt.Fprintf(w, "  loop scale 0x%02x, loop history %d %d\n",
			ci.LoopPredictorScale, ci.LoopHistorySample1, ci.LoopHistorySample2)
	}
}
