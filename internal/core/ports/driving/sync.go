package driving

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// SyncOrchestrator republishes eligible records into the search index.
type SyncOrchestrator interface {
	// RunSync processes one bounded slice of eligible records and returns the cursor.
	// Per-record failures are reported in the result, never returned as errors.
	RunSync(ctx context.Context, opts domain.SyncOptions) (*domain.SyncResult, error)

	// RunAll repeats RunSync from opts until the cursor reports done.
	// Reset applies only to the first pass.
	RunAll(ctx context.Context, opts domain.SyncOptions) ([]*domain.SyncResult, error)

	// Purge removes every file attached to the index.
	Purge(ctx context.Context) (*domain.PurgeReport, error)

	// CheckSections reports schema mismatches for every configured section.
	CheckSections(ctx context.Context) ([]domain.SectionDiagnostic, error)

	// State returns the persisted cursor of the last pass.
	// Returns domain.ErrNotFound when nothing has been persisted.
	State(ctx context.Context) (*domain.SyncState, error)
}
