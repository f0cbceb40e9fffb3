// Package main is the entry point for the caucus CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/f3rmion/caucus/cmd/caucus/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
