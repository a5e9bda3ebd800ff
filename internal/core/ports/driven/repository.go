package driven

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// ContentRepository reads rows from the structured content repository.
// Implementations handle authentication and rate limiting internally.
type ContentRepository interface {
	// QueryRows returns one page of rows of tableID matching the request.
	QueryRows(ctx context.Context, tableID string, req domain.QueryRequest) (*domain.RowPage, error)

	// RetrieveSchema returns the property-name to type map of tableID.
	// Used only for diagnostics; callers must not gate execution on it.
	RetrieveSchema(ctx context.Context, tableID string) (domain.TableSchema, error)
}

// ContentConverter renders a record's native content to markdown.
type ContentConverter interface {
	// PageToMarkdown returns the markdown body of the page.
	PageToMarkdown(ctx context.Context, pageID string) (string, error)
}
