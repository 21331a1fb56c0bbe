// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ik5/brstmplay"
	"github.com/ik5/brstmplay/audio"
	"github.com/ik5/brstmplay/formats/brstm"
	"github.com/ik5/brstmplay/internal/output"
	"github.com/ik5/brstmplay/internal/ui"
	"github.com/ik5/brstmplay/playback"
	"github.com/ik5/brstmplay/stream"
)

// the device always gets stereo
const outputChannels = 2

type playOptions struct {
	input   inputOptions
	rate    int
	history brstm.HistoryPolicy
	volume  float64
	noTUI   bool
	noLoop  bool
}

func runPlay(ctx context.Context, args []string, stderr io.Writer, logger *slog.Logger, level slog.Level) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts playOptions
	fs.IntVar(&opts.rate, "rate", 48000, "device sample rate")
	fs.IntVar(&opts.input.throttle, "throttle", 0, "limit the download to this many bytes per second")
	fs.BoolVar(&opts.input.legacy, "legacy", false, "download URLs completely before playing")
	fs.Float64Var(&opts.volume, "volume", 1, "initial volume, 0 to 1")
	fs.BoolVar(&opts.noTUI, "no-tui", false, "play without the terminal interface")
	fs.BoolVar(&opts.noLoop, "no-loop", false, "ignore the loop point")
	history := fs.String("history", brstm.HistoryCatchUp.String(), "ADPCM history policy: catch-up, strict or seeded")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: brstmplay play [-rate N] [-throttle B/s] [-legacy] [-no-tui] [-no-loop] <file|url>")
		return errUsage
	}

	var err error
	if opts.history, err = parseHistory(*history); err != nil {
		return err
	}

	if !opts.noTUI && level > slog.LevelDebug {
		// the interface owns the terminal
		logger = slog.New(slog.DiscardHandler)
	}

	return play(ctx, fs.Arg(0), opts, logger)
}

func play(ctx context.Context, name string, opts playOptions, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rc, size, err := openInput(ctx, name, opts.input)
	if err != nil {
		return err
	}
	defer rc.Close()

	loader := stream.NewLoader(stream.Config{
		Decoder:  brstm.Config{History: opts.history},
		SizeHint: int(size),
		Logger:   logger,
	})
	loadErr := make(chan error, 1)
	go func() { loadErr <- loader.Run(ctx, rc) }()

	select {
	case <-loader.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	s, err := loader.Stream()
	if err != nil {
		return err
	}

	session := playback.New(s, playback.Config{
		Progress: loader,
		Volume:   &opts.volume,
		NoLoop:   opts.noLoop,
		Hold:     !opts.noTUI,
		Logger:   logger,
	})
	src, err := brstmplay.Pipeline(session, opts.rate, outputChannels)
	if err != nil {
		return err
	}

	dev, err := output.Open(output.Format{SampleRate: src.SampleRate(), Channels: outputChannels}, logger)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.Play(audio.NewPCM16Reader(src)); err != nil {
		return err
	}

	if opts.noTUI {
		err = dev.Wait(ctx)
	} else {
		err = ui.Run(session, path.Base(name), tea.WithAltScreen(), tea.WithContext(ctx))
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			err = ctx.Err()
		}
	}

	cancel()
	if lerr := <-loadErr; lerr != nil && !errors.Is(lerr, context.Canceled) {
		logger.Warn("download did not finish", "error", lerr)
	}

	return err
}
