package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driving"
	"github.com/custodia-labs/carriersync/internal/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish a slice of carrier pages",
	Long: `Republishes up to --limit eligible carrier pages, starting at --offset,
and prints the cursor for the next pass.

Use --reset on the first pass of a full rebuild to purge the vector store.
Use --all to keep running passes until every eligible page is processed, or
--resume to continue from the cursor saved by the previous pass.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Int("limit", domain.DefaultSyncLimit, "Maximum number of pages per pass")
	syncCmd.Flags().Int("offset", 0, "Index of the first eligible page to process")
	syncCmd.Flags().Bool("reset", false, "Purge the vector store before processing")
	syncCmd.Flags().Bool("all", false, "Run passes until every eligible page is processed")
	syncCmd.Flags().Bool("resume", false, "Continue from the saved cursor")
	syncCmd.Flags().Bool("dry-run", false, "Publish into an in-memory index instead of the vector store")
	syncCmd.Flags().Bool("json", false, "Print results as JSON")
	syncCmd.MarkFlagsMutuallyExclusive("resume", "offset")
	syncCmd.MarkFlagsMutuallyExclusive("resume", "reset")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	reset, _ := flags.GetBool("reset")
	all, _ := flags.GetBool("all")
	resume, _ := flags.GetBool("resume")
	dryRun, _ := flags.GetBool("dry-run")

	orch, err := orchestrator(cmd, dryRun)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := domain.SyncOptions{Limit: limit, Offset: offset, Reset: reset}

	if resume {
		next, ok, err := resumeOptions(ctx, orch, limit)
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Nothing to resume: the last sync sequence completed.")
			return nil
		}
		opts = next
	}

	var passes []*domain.SyncResult
	if all {
		passes, err = orch.RunAll(ctx, opts)
	} else {
		var result *domain.SyncResult
		result, err = orch.RunSync(ctx, opts)
		if result != nil {
			passes = []*domain.SyncResult{result}
		}
	}

	if printErr := printPasses(cmd, passes, all); printErr != nil {
		return printErr
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if dryRun && published != nil && !wantJSON(cmd) {
		names := published()
		cmd.Printf("Dry run: %d chunk files held in memory\n", len(names))
		for _, name := range names {
			cmd.Printf("  %s\n", name)
		}
	}
	return nil
}

// resumeOptions returns the options continuing the saved cursor.
// ok is false when the saved sequence already completed.
func resumeOptions(ctx context.Context, orch driving.SyncOrchestrator, limit int) (domain.SyncOptions, bool, error) {
	state, err := orch.State(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("No saved cursor, starting from the first page")
		return domain.SyncOptions{Limit: limit}, true, nil
	}
	if err != nil {
		return domain.SyncOptions{}, false, fmt.Errorf("loading saved cursor: %w", err)
	}
	if state.Done || state.NextOffset == nil {
		return domain.SyncOptions{}, false, nil
	}
	logger.Info("Resuming run %s at offset %d", state.RunID, *state.NextOffset)
	return domain.SyncOptions{Limit: limit, Offset: *state.NextOffset}, true, nil
}

func printPasses(cmd *cobra.Command, passes []*domain.SyncResult, all bool) error {
	if wantJSON(cmd) {
		switch {
		case all:
			if passes == nil {
				passes = []*domain.SyncResult{}
			}
			return printJSON(cmd, passes)
		case len(passes) == 1:
			return printJSON(cmd, passes[0])
		}
		return nil
	}

	for _, p := range passes {
		printPass(cmd, p)
	}
	return nil
}

func printPass(cmd *cobra.Command, r *domain.SyncResult) {
	if r.Purge != nil {
		cmd.Printf("Purged %d of %d files", len(r.Purge.Removed), r.Purge.Listed)
		if n := len(r.Purge.Failed); n > 0 {
			cmd.Printf(" (%d failed)", n)
		}
		cmd.Println()
	}

	cmd.Printf("Processed %d of %d pages from offset %d, %d chunks published\n",
		r.Processed, r.TotalPages, r.OffsetStart, r.ChunksPublished)
	for _, title := range r.TitlesProcessed {
		cmd.Printf("  + %s\n", title)
	}
	for _, title := range r.TitlesSkipped {
		cmd.Printf("  - %s (empty, skipped)\n", title)
	}
	for _, f := range r.Failures {
		cmd.Printf("  ! %s: %s\n", f.Title, f.Reason)
	}

	if r.Done {
		cmd.Println("Done: every eligible page has been processed.")
	} else if r.NextOffset != nil {
		cmd.Printf("Next offset: %d\n", *r.NextOffset)
	}
}
