package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every file from the vector store",
	Long: `Detaches every file attached to the vector store and deletes it.
Files that fail to detach or delete are reported and the purge continues.`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().Bool("json", false, "Print the report as JSON")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	orch, err := orchestrator(cmd, false)
	if err != nil {
		return err
	}

	report, err := orch.Purge(cmd.Context())
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if wantJSON(cmd) {
		if err := printJSON(cmd, report); err != nil {
			return err
		}
	} else {
		cmd.Printf("Removed %d of %d files\n", len(report.Removed), report.Listed)
		for _, f := range report.Failed {
			cmd.Printf("  ! %s (%s): %s\n", f.FileID, f.Stage, f.Reason)
		}
	}

	if n := len(report.Failed); n > 0 {
		return fmt.Errorf("purge incomplete: %d of %d files failed", n, report.Listed)
	}
	return nil
}
