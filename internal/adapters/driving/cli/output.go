package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// wantJSON reports whether cmd should print JSON: when --json is set or
// stdout is not a terminal.
func wantJSON(cmd *cobra.Command) bool {
	if asJSON, err := cmd.Flags().GetBool("json"); err == nil && asJSON {
		return true
	}
	return !isTerminal(cmd.OutOrStdout())
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
