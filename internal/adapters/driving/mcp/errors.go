// Package mcp provides an MCP (Model Context Protocol) server adapter for carriersync.
// It lets AI assistants trigger sync passes, purge the index and check section schemas.
package mcp

import "errors"

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("mcp: sync orchestrator is required")
