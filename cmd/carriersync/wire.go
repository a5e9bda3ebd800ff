package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/carriersync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/carriersync/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/carriersync/internal/adapters/driven/index/openai"
	memstore "github.com/custodia-labs/carriersync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carriersync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/carriersync/internal/adapters/driving/cli"
	"github.com/custodia-labs/carriersync/internal/config"
	"github.com/custodia-labs/carriersync/internal/connectors/notion"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
	"github.com/custodia-labs/carriersync/internal/core/services"
	"github.com/custodia-labs/carriersync/internal/logger"
)

// dryRunStateKey keys the cursor of dry runs, which never touch the real store.
const dryRunStateKey = "dry-run"

// build wires the services for one command invocation.
// A dry run reads the source workspace but publishes into memory and keeps
// its cursor in memory, so neither the vector store nor the saved cursor changes.
func build(flags *pflag.FlagSet, dryRun bool) (*cli.Runtime, error) {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if dryRun {
		err = settings.ValidateSource()
	} else {
		err = settings.Validate()
	}
	if err != nil {
		return nil, err
	}

	sections, err := file.LoadSections(settings.SectionsFile)
	if err != nil {
		return nil, fmt.Errorf("loading sections: %w", err)
	}
	logger.Debug("Loaded %d sections", len(sections))

	client := notion.NewClient(settings.NotionToken,
		notion.WithRateLimit(settings.NotionRPS, max(1, int(settings.NotionRPS))),
	)

	cfg := services.Config{
		ParentTableID:   settings.CarriersDBID,
		IncludeProperty: settings.IncludeProperty,
		StateKey:        settings.VectorStoreID,
		ChunkTokens:     settings.ChunkTokens,
		Sections:        sections,
		Assembler: services.AssemblerConfig{
			SectionLabel:         settings.SectionLabel,
			LastVerifiedProperty: settings.LastVerifiedProperty,
		},
	}

	rt := &cli.Runtime{}
	var (
		backend driven.IndexBackend
		states  driven.SyncStateStore
	)

	if dryRun {
		index := memory.NewIndex()
		backend = index
		states = memstore.NewSyncStateStore()
		cfg.StateKey = dryRunStateKey
		rt.Published = func() []string {
			files := index.Attached()
			names := make([]string, len(files))
			for i, f := range files {
				names[i] = f.Name
			}
			return names
		}
	} else {
		b, err := openai.NewBackend(openai.Config{
			APIKey:        settings.OpenAIAPIKey,
			VectorStoreID: settings.VectorStoreID,
			BaseURL:       settings.OpenAIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		backend = b

		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening state store: %w", err)
		}
		logger.Debug("Sync state database: %s", store.Path())
		states = store.SyncStateStore()
		rt.Close = store.Close
	}

	rt.Orchestrator = services.NewSyncOrchestrator(
		notion.NewRepository(client),
		notion.NewConverter(client),
		backend,
		states,
		cfg,
	)
	return rt, nil
}
