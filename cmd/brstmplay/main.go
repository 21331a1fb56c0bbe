// SPDX-License-Identifier: EPL-2.0

// Command brstmplay inspects, exports and plays RSTM streams.
//
// Usage:
//
//	brstmplay [-v] info [-channels] <file|url>
//	brstmplay [-v] export [-mono] [-rate N] [-history P] <file|url> <out.wav>
//	brstmplay [-v] play [-rate N] [-throttle B/s] [-legacy] [-no-tui] [-no-loop] <file|url>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
)

const usage = `usage: brstmplay [-v] <command> [flags] <input> ...

commands:
  info     print the stream header
  export   decode to a 16-bit WAV file
  play     play on the default sound device
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brstmplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "info":
		err = runInfo(ctx, rest, stdout, stderr, logger)
	case "export":
		err = runExport(ctx, rest, stdout, stderr, logger)
	case "play":
		err = runPlay(ctx, rest, stderr, logger, level)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	}

	logger.Error(cmd+" failed", "error", err)
	return 1
}
