package mcp

import (
	"github.com/custodia-labs/carriersync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Sync runs sync passes, purges and section checks.
	Sync driving.SyncOrchestrator
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
