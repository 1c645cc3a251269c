// Package main is the entry point for tmanctl, the TMan Origins admin CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tmanorigins/tman-server/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
