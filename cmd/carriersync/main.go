// Command carriersync republishes Notion carrier pages into an OpenAI vector store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/carriersync/internal/adapters/driving/cli"
	"github.com/custodia-labs/carriersync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBuilder(build)

	if err := cli.Execute(ctx); err != nil {
		logger.Debug("command failed: %v", err)
		stop()
		os.Exit(1)
	}
}
