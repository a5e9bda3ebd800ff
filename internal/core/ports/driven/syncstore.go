package driven

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// SyncStateStore persists the cursor returned by the most recent sync pass.
type SyncStateStore interface {
	// Save stores or updates the state for state.Key.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves the state for key. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key string) (*domain.SyncState, error)

	// Delete removes the state for key.
	Delete(ctx context.Context, key string) error
}
