package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/pulua/cli"
	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Debug("run failed", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, lang.Describe(err))
		os.Exit(1)
	}
}
