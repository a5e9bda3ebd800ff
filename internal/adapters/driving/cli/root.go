// Package cli provides the cobra command tree for carriersync.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/carriersync/internal/core/ports/driving"
	"github.com/custodia-labs/carriersync/internal/logger"
)

// version is set at build time.
var version = "dev"

// Runtime is the set of services a command runs against.
type Runtime struct {
	// Orchestrator runs sync passes, purges and section checks.
	Orchestrator driving.SyncOrchestrator

	// Published lists the filenames held by a dry-run index. Nil otherwise.
	Published func() []string

	// Close releases the runtime's resources. Optional.
	Close func() error
}

// Builder constructs a Runtime once flags are parsed.
type Builder func(flags *pflag.FlagSet, dryRun bool) (*Runtime, error)

var (
	builder Builder

	// syncOrchestrator is resolved lazily from builder unless set directly.
	syncOrchestrator driving.SyncOrchestrator
	published        func() []string
	closeRuntime     func() error
)

var rootCmd = &cobra.Command{
	Use:   "carriersync",
	Short: "Sync carrier pages into an OpenAI vector store",
	Long: `carriersync republishes the carrier pages of a Notion workspace as
markdown chunks in an OpenAI vector store.

Each pass processes a bounded slice of the eligible carrier pages and prints
the cursor for the next pass. A reset pass purges the store first.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Path to the sections TOML file")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the sync state database")
	rootCmd.PersistentFlags().Int("chunk-tokens", 0, "Approximate chunk size in tokens")
}

// Execute runs the root command and releases the runtime it built.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := releaseRuntime(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBuilder sets the function that wires services for each command.
func SetBuilder(b Builder) {
	builder = b
}

// SetSyncOrchestrator sets the orchestrator directly, bypassing the builder.
func SetSyncOrchestrator(o driving.SyncOrchestrator) {
	syncOrchestrator = o
}

// orchestrator returns the configured orchestrator, building it on first use.
func orchestrator(cmd *cobra.Command, dryRun bool) (driving.SyncOrchestrator, error) {
	if syncOrchestrator != nil {
		return syncOrchestrator, nil
	}
	if builder == nil {
		return nil, errors.New("sync service not configured")
	}

	rt, err := builder(cmd.Flags(), dryRun)
	if err != nil {
		return nil, err
	}
	if rt == nil || rt.Orchestrator == nil {
		return nil, errors.New("sync service not configured")
	}

	syncOrchestrator = rt.Orchestrator
	published = rt.Published
	closeRuntime = rt.Close
	return syncOrchestrator, nil
}

func releaseRuntime() error {
	if closeRuntime == nil {
		return nil
	}
	closeFn := closeRuntime
	closeRuntime = nil
	if builder != nil {
		syncOrchestrator = nil
		published = nil
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("closing runtime: %w", err)
	}
	return nil
}
