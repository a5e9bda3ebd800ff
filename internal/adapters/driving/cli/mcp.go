package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carriersync/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the run_sync,
purge_index and check_sections tools.

By default, the server communicates over stdio using JSON-RPC.
Use --http to serve the streamable HTTP transport instead.

Examples:
  # Stdio mode
  carriersync mcp

  # HTTP mode
  carriersync mcp --http :8080`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("http", "", "HTTP listen address (empty = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	orch, err := orchestrator(cmd, false)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Sync: orch})
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
