package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
	"github.com/custodia-labs/carriersync/internal/core/ports/driving"
	"github.com/custodia-labs/carriersync/internal/logger"
	"github.com/custodia-labs/carriersync/internal/postprocessors/chunker"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// DefaultIncludeProperty is the parent checkbox that marks records for indexing.
const DefaultIncludeProperty = "Include in GPT"

// Config holds the static configuration of a sync target.
type Config struct {
	// ParentTableID identifies the table of parent records.
	ParentTableID string

	// IncludeProperty names the checkbox controlling eligibility.
	IncludeProperty string

	// StateKey keys the persisted cursor, normally the target index id.
	StateKey string

	// ChunkTokens is the approximate chunk size in tokens.
	ChunkTokens int

	// PageSize is the repository page size.
	PageSize int

	// Sections are appended, in order, to every parent document.
	Sections []domain.SectionSpec

	// Assembler controls the document header.
	Assembler AssemblerConfig
}

// SyncOrchestrator republishes eligible parent records into the search index
// in bounded, resumable passes. Records are processed strictly sequentially.
type SyncOrchestrator struct {
	repo      driven.ContentRepository
	assembler *Assembler
	chunker   *chunker.Processor
	publisher *Publisher
	syncStore driven.SyncStateStore
	cfg       Config

	newRunID func() string
	now      func() time.Time
}

// NewSyncOrchestrator creates a new sync orchestrator.
// syncStore is optional; when nil the cursor is only returned to the caller.
func NewSyncOrchestrator(
	repo driven.ContentRepository,
	converter driven.ContentConverter,
	backend driven.IndexBackend,
	syncStore driven.SyncStateStore,
	cfg Config,
) *SyncOrchestrator {
	if cfg.IncludeProperty == "" {
		cfg.IncludeProperty = DefaultIncludeProperty
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	builder := NewSectionBuilder(repo, cfg.PageSize)
	return &SyncOrchestrator{
		repo:      repo,
		assembler: NewAssembler(converter, builder, cfg.Sections, cfg.Assembler),
		chunker:   chunker.New(chunker.WithTokens(cfg.ChunkTokens)),
		publisher: NewPublisher(backend),
		syncStore: syncStore,
		cfg:       cfg,
		newRunID:  func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// RunSync processes the slice [Offset, Offset+Limit) of the eligible records.
//
// Purge (when Reset is set) and discovery failures are returned as errors.
// A record that fails to assemble or publish is logged, reported in
// Failures and skipped; the cursor still advances past it.
func (o *SyncOrchestrator) RunSync(ctx context.Context, opts domain.SyncOptions) (*domain.SyncResult, error) {
	opts = opts.Normalised()
	if opts.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative, got %d", domain.ErrInvalidInput, opts.Offset)
	}

	result := &domain.SyncResult{
		RunID:           o.newRunID(),
		OffsetStart:     opts.Offset,
		TitlesProcessed: []string{},
	}
	logger.Section("Sync " + result.RunID)
	logger.Info("Starting sync pass: limit=%d offset=%d reset=%t", opts.Limit, opts.Offset, opts.Reset)

	// 1. PURGE
	if opts.Reset {
		report, err := o.publisher.PurgeAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("purge index: %w", err)
		}
		result.Purge = report
	}

	// 2. DISCOVER
	records, err := o.discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover records: %w", err)
	}
	result.TotalPages = len(records)

	// 3. SLICE
	slice := window(records, opts.Offset, opts.Limit)

	// 4. PROCESS
	for _, rec := range slice {
		if err := ctx.Err(); err != nil {
			o.finish(ctx, result)
			return result, err
		}

		logger.Info("Syncing record: %s", rec.Name)
		published, err := o.syncRecord(ctx, rec)
		result.ChunksPublished += published
		result.Processed++

		switch {
		case errors.Is(err, domain.ErrEmptyDocument):
			logger.Warn("Skipped empty content for: %s", rec.Name)
			result.TitlesSkipped = append(result.TitlesSkipped, rec.Name)
		case err != nil:
			logger.Error("Failed to sync %s (%s): %v", rec.Name, rec.ID, err)
			result.Failures = append(result.Failures, domain.RecordFailure{
				RecordID: rec.ID, Title: rec.Name, Reason: err.Error(),
			})
		default:
			result.TitlesProcessed = append(result.TitlesProcessed, rec.Name)
		}
	}

	// 5. CURSOR
	o.finish(ctx, result)
	logger.Info("Sync pass complete: %d processed, %d chunks, %d failures, done=%t",
		result.Processed, result.ChunksPublished, len(result.Failures), result.Done)
	return result, nil
}

// RunAll repeats RunSync until the cursor reports done.
// Reset applies to the first pass only.
func (o *SyncOrchestrator) RunAll(ctx context.Context, opts domain.SyncOptions) ([]*domain.SyncResult, error) {
	opts = opts.Normalised()

	var results []*domain.SyncResult
	for {
		result, err := o.RunSync(ctx, opts)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			return results, err
		}

		next, more := result.Next(opts.Limit)
		if !more {
			return results, nil
		}
		opts = next
	}
}

// Purge removes every file attached to the index.
func (o *SyncOrchestrator) Purge(ctx context.Context) (*domain.PurgeReport, error) {
	return o.publisher.PurgeAll(ctx)
}

// State returns the persisted cursor of the last pass.
func (o *SyncOrchestrator) State(ctx context.Context) (*domain.SyncState, error) {
	if o.syncStore == nil {
		return nil, domain.ErrNotFound
	}
	return o.syncStore.Get(ctx, o.cfg.StateKey)
}

// discover lists every parent record whose include flag is set,
// in the repository's natural order.
func (o *SyncOrchestrator) discover(ctx context.Context) ([]domain.SourceRecord, error) {
	include := o.resolveIncludeProperty(ctx)

	rows, err := queryAll(ctx, o.repo, o.cfg.ParentTableID, domain.CheckboxEquals(include, true), nil, o.cfg.PageSize)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SourceRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.NewSourceRecord(row, include)
		if !rec.Include {
			logger.Debug("Ignoring %s: %s is not set", rec.Name, include)
			continue
		}
		records = append(records, rec)
	}

	logger.Info("Discovered %d eligible records", len(records))
	return records, nil
}

// resolveIncludeProperty matches the configured include property against the
// parent schema, ignoring case. The schema is advisory: on any failure the
// configured name is used unchanged.
func (o *SyncOrchestrator) resolveIncludeProperty(ctx context.Context) string {
	want := o.cfg.IncludeProperty

	schema, err := o.repo.RetrieveSchema(ctx, o.cfg.ParentTableID)
	if err != nil {
		logger.Warn("Could not read parent schema, using %q: %v", want, err)
		return want
	}
	if _, ok := schema[want]; ok {
		return want
	}
	for name := range schema {
		if strings.EqualFold(name, want) {
			return name
		}
	}

	logger.Warn("Include property %q not found in parent schema", want)
	return want
}

// syncRecord assembles, chunks and publishes one record.
// A record either publishes all of its chunks or none: on failure the
// chunks already published are retracted and zero is returned.
func (o *SyncOrchestrator) syncRecord(ctx context.Context, rec domain.SourceRecord) (published int, err error) {
	var fileIDs []string
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while syncing: %v", r)
		}
		if err == nil {
			return
		}
		published = 0
		if len(fileIDs) == 0 {
			return
		}
		logger.Warn("Retracting %d published chunks of %s", len(fileIDs), rec.Name)
		if cleanupErr := o.publisher.Retract(context.WithoutCancel(ctx), fileIDs); cleanupErr != nil {
			err = errors.Join(err, fmt.Errorf("retract partial chunks: %w", cleanupErr))
		}
	}()

	doc, err := o.assembler.Assemble(ctx, rec)
	if err != nil {
		return 0, err
	}
	if doc.IsEmpty() {
		return 0, domain.ErrEmptyDocument
	}
	if !doc.HasBody() {
		logger.Debug("Publishing header only for %s", rec.Name)
	}

	for _, c := range o.chunker.Process(*doc) {
		fileID, err := o.publisher.Publish(ctx, c.Content, c.Filename)
		if err != nil {
			return 0, err
		}
		fileIDs = append(fileIDs, fileID)
	}
	return len(fileIDs), nil
}

// finish computes the cursor and persists it.
func (o *SyncOrchestrator) finish(ctx context.Context, result *domain.SyncResult) {
	end := result.OffsetStart + result.Processed
	result.Done = end >= result.TotalPages
	result.NextOffset = nil
	if !result.Done {
		next := end
		result.NextOffset = &next
	}

	if o.syncStore == nil {
		return
	}
	state := domain.SyncState{
		Key:        o.cfg.StateKey,
		RunID:      result.RunID,
		NextOffset: result.NextOffset,
		Done:       result.Done,
		UpdatedAt:  o.now(),
	}
	if err := o.syncStore.Save(context.WithoutCancel(ctx), state); err != nil {
		logger.Warn("Failed to persist sync cursor: %v", err)
	}
}

// window returns records[offset:offset+limit], clamped to the slice bounds.
func window(records []domain.SourceRecord, offset, limit int) []domain.SourceRecord {
	if offset >= len(records) {
		return nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
