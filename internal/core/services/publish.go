package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
	"github.com/custodia-labs/carriersync/internal/logger"
)

// MediaTypeMarkdown is the declared media type of published chunks.
const MediaTypeMarkdown = "text/markdown"

// Publisher uploads chunks into the search index and purges them.
type Publisher struct {
	backend driven.IndexBackend
}

// NewPublisher creates a publisher over backend.
func NewPublisher(backend driven.IndexBackend) *Publisher {
	return &Publisher{backend: backend}
}

// Publish uploads text as filename and attaches it to the index.
// If attaching fails the uploaded file is deleted, so a failed publish
// leaves no orphan behind unless that cleanup fails too.
func (p *Publisher) Publish(ctx context.Context, text, filename string) (string, error) {
	fileID, err := p.backend.CreateFile(ctx, filename, MediaTypeMarkdown, []byte(text))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}

	if err := p.backend.AttachFile(ctx, fileID); err != nil {
		attachErr := fmt.Errorf("attach %s (%s): %w", filename, fileID, err)
		if delErr := p.backend.DeleteFile(ctx, fileID); delErr != nil {
			logger.Warn("Orphaned file %s left in storage: %v", fileID, delErr)
			return "", errors.Join(attachErr, fmt.Errorf("delete orphaned file %s: %w", fileID, delErr))
		}
		return "", attachErr
	}

	logger.Debug("Published %s as %s", filename, fileID)
	return fileID, nil
}

// PurgeAll detaches and deletes every file attached to the index.
// Listing failures abort the purge. Individual detach or delete failures
// are logged, recorded in the report and skipped.
func (p *Publisher) PurgeAll(ctx context.Context) (*domain.PurgeReport, error) {
	ids, err := p.listAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list index files: %w", err)
	}

	report := &domain.PurgeReport{Listed: len(ids), Removed: []string{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		detachErr, deleteErr := p.remove(ctx, id)
		if detachErr != nil {
			report.Failed = append(report.Failed, domain.PurgeFailure{
				FileID: id, Stage: domain.PurgeDetach, Reason: detachErr.Error(),
			})
		}
		if deleteErr != nil {
			report.Failed = append(report.Failed, domain.PurgeFailure{
				FileID: id, Stage: domain.PurgeDelete, Reason: deleteErr.Error(),
			})
			continue
		}
		report.Removed = append(report.Removed, id)
	}

	logger.Info("Purged %d of %d index files (%d failures)", len(report.Removed), report.Listed, len(report.Failed))
	return report, nil
}

// Retract detaches and deletes the given published files. Every file is
// attempted; the failures are joined into the returned error.
func (p *Publisher) Retract(ctx context.Context, fileIDs []string) error {
	var errs []error
	for _, id := range fileIDs {
		detachErr, deleteErr := p.remove(ctx, id)
		if detachErr != nil {
			errs = append(errs, fmt.Errorf("detach %s: %w", id, detachErr))
		}
		if deleteErr != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", id, deleteErr))
		}
	}
	return errors.Join(errs...)
}

// remove detaches id from the index and deletes the file. The delete is
// attempted even when the detach fails.
func (p *Publisher) remove(ctx context.Context, id string) (detachErr, deleteErr error) {
	if detachErr = p.backend.DetachFile(ctx, id); detachErr != nil {
		logger.Warn("Failed to detach index file %s: %v", id, detachErr)
	}
	if deleteErr = p.backend.DeleteFile(ctx, id); deleteErr != nil {
		logger.Warn("Failed to delete file %s: %v", id, deleteErr)
	}
	return detachErr, deleteErr
}

// listAll collects every attached file id before anything is removed,
// so detaching cannot shift the pages being read.
func (p *Publisher) listAll(ctx context.Context) ([]string, error) {
	var ids []string
	after := ""
	for {
		page, err := p.backend.ListFiles(ctx, after)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page.FileIDs...)

		if !page.HasMore {
			return ids, nil
		}
		if page.LastID == "" || page.LastID == after {
			return nil, fmt.Errorf("%w: listing reported more files without advancing", domain.ErrIndexUnavailable)
		}
		after = page.LastID
	}
}
