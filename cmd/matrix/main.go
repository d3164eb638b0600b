// SPDX-License-Identifier: MIT

// Command matrix performs integer matrix operations on tab-delimited text.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/matrix/internal/cli"
)

// main is the entrypoint for the matrix command.
func main() {
	// Anything logged before the configured logger exists stays quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	os.Exit(run())
}

// run wires the process signals and streams into the CLI and returns the
// exit code, so deferred cleanup happens before os.Exit.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, os.Args[1:], cli.Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})
}
