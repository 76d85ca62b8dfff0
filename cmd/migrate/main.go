package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{})

	app := &cli.Command{
		Name:     "migrate",
		Usage:    "Move travel data between the relational and document backends",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("Migration command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
