package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_Flags(t *testing.T) {
	limit := syncCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "5", limit.DefValue)

	for _, name := range []string{"offset", "reset", "all", "resume", "dry-run", "json"} {
		assert.NotNil(t, syncCmd.Flags().Lookup(name), name)
	}
}

func TestSyncCmd_JSONWhenNotTerminal(t *testing.T) {
	m := &mockSyncOrchestrator{result: &domain.SyncResult{
		RunID:           "run-1",
		TotalPages:      7,
		Processed:       5,
		OffsetStart:     0,
		NextOffset:      intPtr(5),
		TitlesProcessed: []string{"Acme"},
		ChunksPublished: 6,
	}}
	setupOrchestrator(t, m)

	out, err := execute(t, "sync", "--limit", "5", "--reset")
	require.NoError(t, err)

	assert.Equal(t, []string{"RunSync"}, m.calls)
	assert.Equal(t, domain.SyncOptions{Limit: 5, Reset: true}, m.gotOpts)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 7, got["totalPages"], 0)
	assert.InDelta(t, 5, got["nextOffset"], 0)
	assert.Equal(t, false, got["done"])
}

func TestSyncCmd_TableOutput(t *testing.T) {
	m := &mockSyncOrchestrator{result: &domain.SyncResult{
		TotalPages:      3,
		Processed:       3,
		OffsetStart:     0,
		Done:            true,
		TitlesProcessed: []string{"Acme"},
		TitlesSkipped:   []string{"Blank"},
		Failures:        []domain.RecordFailure{{Title: "Broken", Reason: "conversion failed"}},
		ChunksPublished: 2,
		Purge:           &domain.PurgeReport{Listed: 4, Removed: []string{"a", "b", "c", "d"}},
	}}
	setupOrchestrator(t, m)
	asTerminal(t)

	out, err := execute(t, "sync", "--reset")
	require.NoError(t, err)

	assert.Contains(t, out, "Purged 4 of 4 files")
	assert.Contains(t, out, "Processed 3 of 3 pages from offset 0, 2 chunks published")
	assert.Contains(t, out, "+ Acme")
	assert.Contains(t, out, "- Blank (empty, skipped)")
	assert.Contains(t, out, "! Broken: conversion failed")
	assert.Contains(t, out, "Done")
}

func TestSyncCmd_All(t *testing.T) {
	m := &mockSyncOrchestrator{results: []*domain.SyncResult{
		{Processed: 2, NextOffset: intPtr(2)},
		{Processed: 1, Done: true},
	}}
	setupOrchestrator(t, m)

	out, err := execute(t, "sync", "--all", "--limit", "2", "--reset")
	require.NoError(t, err)

	assert.Equal(t, []string{"RunAll"}, m.calls)
	assert.Equal(t, domain.SyncOptions{Limit: 2, Reset: true}, m.gotOpts)

	var got []domain.SyncResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)
}

func TestSyncCmd_Resume(t *testing.T) {
	m := &mockSyncOrchestrator{
		state:  &domain.SyncState{RunID: "run-1", NextOffset: intPtr(10)},
		result: &domain.SyncResult{NextOffset: intPtr(15)},
	}
	setupOrchestrator(t, m)

	_, err := execute(t, "sync", "--resume", "--limit", "5")
	require.NoError(t, err)

	assert.Equal(t, []string{"State", "RunSync"}, m.calls)
	assert.Equal(t, domain.SyncOptions{Limit: 5, Offset: 10}, m.gotOpts)
}

func TestSyncCmd_ResumeWithoutState(t *testing.T) {
	m := &mockSyncOrchestrator{result: &domain.SyncResult{Done: true}}
	setupOrchestrator(t, m)

	_, err := execute(t, "sync", "--resume")
	require.NoError(t, err)
	assert.Equal(t, domain.SyncOptions{Limit: domain.DefaultSyncLimit}, m.gotOpts)
}

func TestSyncCmd_ResumeCompleted(t *testing.T) {
	m := &mockSyncOrchestrator{state: &domain.SyncState{Done: true}}
	setupOrchestrator(t, m)

	out, err := execute(t, "sync", "--resume")
	require.NoError(t, err)
	assert.Equal(t, []string{"State"}, m.calls)
	assert.Contains(t, out, "Nothing to resume")
}

func TestSyncCmd_ResumeStateError(t *testing.T) {
	setupOrchestrator(t, &mockSyncOrchestrator{stateErr: errors.New("db locked")})

	_, err := execute(t, "sync", "--resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading saved cursor")
}

func TestSyncCmd_ResumeConflictsWithOffset(t *testing.T) {
	setupOrchestrator(t, &mockSyncOrchestrator{})

	_, err := execute(t, "sync", "--resume", "--offset", "3")
	assert.Error(t, err)
}

func TestSyncCmd_ServiceNotConfigured(t *testing.T) {
	setupOrchestrator(t, nil)

	_, err := execute(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync service not configured")
}

func TestSyncCmd_ErrorPrintsPartialResult(t *testing.T) {
	m := &mockSyncOrchestrator{
		result: &domain.SyncResult{Processed: 1, NextOffset: intPtr(1)},
		err:    errors.New("context canceled"),
	}
	setupOrchestrator(t, m)
	asTerminal(t)

	out, err := execute(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
	assert.Contains(t, out, "Next offset: 1")
}

func TestSyncCmd_DryRunUsesBuilder(t *testing.T) {
	setupOrchestrator(t, nil)
	asTerminal(t)

	m := &mockSyncOrchestrator{result: &domain.SyncResult{Processed: 1, Done: true}}
	closed := false
	var gotDryRun bool
	builder = func(_ *pflag.FlagSet, dryRun bool) (*Runtime, error) {
		gotDryRun = dryRun
		return &Runtime{
			Orchestrator: m,
			Published:    func() []string { return []string{"Acme-1.md", "Acme-2.md"} },
			Close:        func() error { closed = true; return nil },
		}, nil
	}

	out, err := execute(t, "sync", "--dry-run")
	require.NoError(t, err)
	require.NoError(t, releaseRuntime())

	assert.True(t, gotDryRun)
	assert.True(t, closed)
	assert.Contains(t, out, "Dry run: 2 chunk files held in memory")
	assert.Contains(t, out, "Acme-2.md")
	assert.Nil(t, syncOrchestrator)
}

func TestSyncCmd_BuilderError(t *testing.T) {
	setupOrchestrator(t, nil)
	builder = func(*pflag.FlagSet, bool) (*Runtime, error) {
		return nil, domain.ErrConfigMissing
	}

	_, err := execute(t, "sync")
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}
