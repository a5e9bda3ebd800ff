package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Section table commands",
}

var sectionsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured section tables",
	Long: `Retrieves the schema of every configured section table and reports
tables that cannot be reached, a missing relation property, or missing columns.`,
	Args: cobra.NoArgs,
	RunE: runSectionsCheck,
}

func init() {
	sectionsCheckCmd.Flags().Bool("json", false, "Print diagnostics as JSON")
	sectionsCmd.AddCommand(sectionsCheckCmd)
	rootCmd.AddCommand(sectionsCmd)
}

func runSectionsCheck(cmd *cobra.Command, _ []string) error {
	orch, err := orchestrator(cmd, false)
	if err != nil {
		return err
	}

	diags, err := orch.CheckSections(cmd.Context())
	if err != nil {
		return fmt.Errorf("section check failed: %w", err)
	}

	failed := 0
	for _, d := range diags {
		if !d.OK() {
			failed++
		}
	}

	if wantJSON(cmd) {
		if err := printJSON(cmd, diags); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStderr(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tTABLE\tSTATUS")
		for _, d := range diags {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Section, d.TableID, status(d))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("section check failed: %d of %d sections mismatched", failed, len(diags))
	}
	return nil
}

func status(d domain.SectionDiagnostic) string {
	if d.OK() {
		return "ok"
	}
	if !d.Reachable {
		return "unreachable: " + d.Error
	}
	var parts []string
	if d.MissingRelation {
		parts = append(parts, "missing relation")
	}
	if len(d.MissingColumns) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(d.MissingColumns, ", "))
	}
	return strings.Join(parts, "; ")
}
