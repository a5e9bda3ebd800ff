package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driving"
)

var _ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	result      *domain.SyncResult
	results     []*domain.SyncResult
	report      *domain.PurgeReport
	diagnostics []domain.SectionDiagnostic
	state       *domain.SyncState
	stateErr    error
	err         error

	calls   []string
	gotOpts domain.SyncOptions
}

func (m *mockSyncOrchestrator) RunSync(_ context.Context, opts domain.SyncOptions) (*domain.SyncResult, error) {
	m.calls = append(m.calls, "RunSync")
	m.gotOpts = opts
	return m.result, m.err
}

func (m *mockSyncOrchestrator) RunAll(_ context.Context, opts domain.SyncOptions) ([]*domain.SyncResult, error) {
	m.calls = append(m.calls, "RunAll")
	m.gotOpts = opts
	return m.results, m.err
}

func (m *mockSyncOrchestrator) Purge(_ context.Context) (*domain.PurgeReport, error) {
	m.calls = append(m.calls, "Purge")
	return m.report, m.err
}

func (m *mockSyncOrchestrator) CheckSections(_ context.Context) ([]domain.SectionDiagnostic, error) {
	m.calls = append(m.calls, "CheckSections")
	return m.diagnostics, m.err
}

func (m *mockSyncOrchestrator) State(_ context.Context) (*domain.SyncState, error) {
	m.calls = append(m.calls, "State")
	if m.state == nil && m.stateErr == nil {
		return nil, domain.ErrNotFound
	}
	return m.state, m.stateErr
}

func intPtr(n int) *int { return &n }

// setupOrchestrator installs m for the duration of the test.
func setupOrchestrator(t *testing.T, m driving.SyncOrchestrator) {
	t.Helper()
	oldSync, oldBuilder, oldTerminal := syncOrchestrator, builder, isTerminal
	syncOrchestrator = m
	builder = nil
	t.Cleanup(func() {
		syncOrchestrator, builder, isTerminal = oldSync, oldBuilder, oldTerminal
		published, closeRuntime = nil, nil
	})
}

// asTerminal makes commands render human-readable output.
func asTerminal(t *testing.T) {
	t.Helper()
	isTerminal = func(io.Writer) bool { return true }
}

// resetFlags restores every flag in the tree to its default so values do
// not leak between executions of the shared root command.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
