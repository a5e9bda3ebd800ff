package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// RunSyncInput is the input schema for the run_sync tool.
type RunSyncInput struct {
	Limit  int  `json:"limit,omitempty" jsonschema:"maximum number of records per pass (default 5)"`
	Offset int  `json:"offset,omitempty" jsonschema:"index of the first eligible record to process"`
	Reset  bool `json:"reset,omitempty" jsonschema:"purge every indexed file before the first pass"`
	All    bool `json:"all,omitempty" jsonschema:"keep running passes until every eligible record is processed"`
}

// RunSyncOutput is the output schema for the run_sync tool.
type RunSyncOutput struct {
	Passes          []*domain.SyncResult `json:"passes"`
	Processed       int                  `json:"processed"`
	ChunksPublished int                  `json:"chunks_published"`
	Failures        int                  `json:"failures"`
	NextOffset      *int                 `json:"next_offset"`
	Done            bool                 `json:"done"`
}

// PurgeOutput is the output schema for the purge_index tool.
type PurgeOutput struct {
	Listed  int                   `json:"listed"`
	Removed []string              `json:"removed"`
	Failed  []domain.PurgeFailure `json:"failed,omitempty"`
}

// CheckSectionsOutput is the output schema for the check_sections tool.
type CheckSectionsOutput struct {
	Sections []domain.SectionDiagnostic `json:"sections"`
	OK       bool                       `json:"ok"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_sync",
		Description: "Republish a slice of carrier pages into the vector store and return the cursor",
	}, s.handleRunSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "purge_index",
		Description: "Detach and delete every file attached to the vector store",
	}, s.handlePurge)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_sections",
		Description: "Verify that every configured section table has its relation and columns",
	}, s.handleCheckSections)
}

// handleRunSync handles the run_sync tool invocation.
func (s *Server) handleRunSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunSyncInput,
) (*mcp.CallToolResult, RunSyncOutput, error) {
	opts := domain.SyncOptions{Limit: input.Limit, Offset: input.Offset, Reset: input.Reset}

	var passes []*domain.SyncResult
	if input.All {
		results, err := s.ports.Sync.RunAll(ctx, opts)
		if err != nil {
			return nil, RunSyncOutput{}, err
		}
		passes = results
	} else {
		result, err := s.ports.Sync.RunSync(ctx, opts)
		if err != nil {
			return nil, RunSyncOutput{}, err
		}
		passes = []*domain.SyncResult{result}
	}

	return nil, summarise(passes), nil
}

func summarise(passes []*domain.SyncResult) RunSyncOutput {
	out := RunSyncOutput{Passes: passes}
	for _, p := range passes {
		out.Processed += p.Processed
		out.ChunksPublished += p.ChunksPublished
		out.Failures += len(p.Failures)
	}
	if n := len(passes); n > 0 {
		out.NextOffset = passes[n-1].NextOffset
		out.Done = passes[n-1].Done
	}
	return out
}

// handlePurge handles the purge_index tool invocation.
func (s *Server) handlePurge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, PurgeOutput, error) {
	report, err := s.ports.Sync.Purge(ctx)
	if err != nil {
		return nil, PurgeOutput{}, err
	}

	return nil, PurgeOutput{
		Listed:  report.Listed,
		Removed: report.Removed,
		Failed:  report.Failed,
	}, nil
}

// handleCheckSections handles the check_sections tool invocation.
func (s *Server) handleCheckSections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CheckSectionsOutput, error) {
	diags, err := s.ports.Sync.CheckSections(ctx)
	if err != nil {
		return nil, CheckSectionsOutput{}, err
	}

	out := CheckSectionsOutput{Sections: diags, OK: true}
	for _, d := range diags {
		if !d.OK() {
			out.OK = false
		}
	}
	return nil, out, nil
}
