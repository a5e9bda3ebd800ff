package mcp

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driving"
)

var _ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	result      *domain.SyncResult
	results     []*domain.SyncResult
	report      *domain.PurgeReport
	diagnostics []domain.SectionDiagnostic
	state       *domain.SyncState
	err         error

	gotOpts    domain.SyncOptions
	runAllUsed bool
}

func (m *mockSyncOrchestrator) RunSync(_ context.Context, opts domain.SyncOptions) (*domain.SyncResult, error) {
	m.gotOpts = opts
	return m.result, m.err
}

func (m *mockSyncOrchestrator) RunAll(_ context.Context, opts domain.SyncOptions) ([]*domain.SyncResult, error) {
	m.gotOpts = opts
	m.runAllUsed = true
	return m.results, m.err
}

func (m *mockSyncOrchestrator) Purge(_ context.Context) (*domain.PurgeReport, error) {
	return m.report, m.err
}

func (m *mockSyncOrchestrator) CheckSections(_ context.Context) ([]domain.SectionDiagnostic, error) {
	return m.diagnostics, m.err
}

func (m *mockSyncOrchestrator) State(_ context.Context) (*domain.SyncState, error) {
	if m.state == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.state, m.err
}

func intPtr(n int) *int { return &n }
