package driven

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// IndexBackend is the vector-search index that holds published chunks.
// An implementation is bound to a single target index.
type IndexBackend interface {
	// CreateFile uploads content as a named file and returns its id.
	CreateFile(ctx context.Context, name, mediaType string, content []byte) (string, error)

	// AttachFile adds an uploaded file to the index.
	AttachFile(ctx context.Context, fileID string) error

	// ListFiles returns one page of files attached to the index.
	// An empty after starts from the beginning.
	ListFiles(ctx context.Context, after string) (*domain.IndexFilePage, error)

	// DetachFile removes a file from the index without deleting it.
	DetachFile(ctx context.Context, fileID string) error

	// DeleteFile deletes the underlying file.
	DeleteFile(ctx context.Context, fileID string) error
}
