// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/brstmplay"
	"github.com/ik5/brstmplay/formats/brstm"
	"github.com/ik5/brstmplay/formats/wav"
)

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mono := fs.Bool("mono", false, "mix down to one channel")
	rate := fs.Int("rate", 0, "output sample rate (default: keep)")
	history := fs.String("history", brstm.HistoryCatchUp.String(), "ADPCM history policy: catch-up, strict or seeded")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: brstmplay export [-mono] [-rate N] [-history P] <file|url> <out.wav>")
		return errUsage
	}
	if *rate < 0 {
		return fmt.Errorf("%w: negative rate %d", errUsage, *rate)
	}

	policy, err := parseHistory(*history)
	if err != nil {
		return err
	}

	s, err := loadStream(ctx, fs.Arg(0), brstm.Config{History: policy}, logger)
	if err != nil {
		return err
	}
	meta := s.Metadata()

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	defer out.Close()

	var frames int
	if !*mono && (*rate == 0 || *rate == meta.SampleRate) {
		all, err := s.AllSamples()
		if err != nil {
			return err
		}
		if err := wav.WriteWAV16(out, meta.SampleRate, all); err != nil {
			return err
		}
		frames = meta.TotalSamples
	} else {
		channels := 0
		if *mono {
			channels = 1
		}
		src, err := brstmplay.Pipeline(brstm.NewSource(s), *rate, channels)
		if err != nil {
			return err
		}
		if frames, err = wav.Encode(out, src); err != nil {
			return err
		}
	}

	if err := out.Close(); err != nil {
		return err
	}

	logger.Info("exported", "input", fs.Arg(0), "output", fs.Arg(1), "frames", frames)
	fmt.Fprintf(stdout, "%s: %d frames\n", fs.Arg(1), frames)

	return nil
}
