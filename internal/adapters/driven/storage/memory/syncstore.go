// Package memory provides in-memory storage for sync cursors.
// State is lost when the process exits.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
type SyncStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.SyncState
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		states: make(map[string]domain.SyncState),
	}
}

// Save stores or replaces the cursor for state.Key.
func (s *SyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.NextOffset != nil {
		next := *state.NextOffset
		state.NextOffset = &next
	}
	s.states[state.Key] = state
	return nil
}

// Get retrieves the cursor saved under key.
func (s *SyncStateStore) Get(_ context.Context, key string) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Delete removes the cursor saved under key.
func (s *SyncStateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}
