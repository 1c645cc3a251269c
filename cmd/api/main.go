// Package main runs the TMan Origins API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/di"
	"github.com/tmanorigins/tman-server/internal/di/providers"
	"github.com/tmanorigins/tman-server/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "tman-server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	log.Info("Server ready", "version", providers.Version)

	<-ctx.Done()
	log.Info("Shutting down")

	// Handles shut down in reverse dependency order: HTTP server, cleanup job, store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Server stopped")
}
