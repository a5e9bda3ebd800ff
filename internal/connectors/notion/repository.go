package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// Ensure Repository implements the interface.
var _ driven.ContentRepository = (*Repository)(nil)

// MaxPageSize is the largest page size Notion accepts.
const MaxPageSize = 100

// Repository reads database rows and schemas from Notion.
type Repository struct {
	client *Client
}

// NewRepository creates a repository over client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// QueryRows returns one page of rows of the database tableID.
func (r *Repository) QueryRows(ctx context.Context, tableID string, req domain.QueryRequest) (*domain.RowPage, error) {
	filter, err := toFilter(req.Filter)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tableID, err)
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	resp, err := r.client.api.Database.Query(ctx, notionapi.DatabaseID(tableID), &notionapi.DatabaseQueryRequest{
		Filter:      filter,
		Sorts:       toSorts(req.Sorts),
		StartCursor: notionapi.Cursor(req.Cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, wrapError(err, "query database "+tableID)
	}

	page := &domain.RowPage{
		Rows:       make([]domain.Row, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}
	for _, p := range resp.Results {
		props := convertProperties(p.Properties)
		r.client.nulls.apply(string(p.ID), props)
		page.Rows = append(page.Rows, domain.Row{
			ID:         string(p.ID),
			URL:        p.URL,
			Properties: props,
		})
	}
	return page, nil
}

// RetrieveSchema returns the property types of the database tableID.
func (r *Repository) RetrieveSchema(ctx context.Context, tableID string) (domain.TableSchema, error) {
	db, err := r.client.api.Database.Get(ctx, notionapi.DatabaseID(tableID))
	if err != nil {
		return nil, wrapError(err, "retrieve database "+tableID)
	}

	schema := make(domain.TableSchema, len(db.Properties))
	for name, cfg := range db.Properties {
		schema[name] = string(cfg.GetType())
	}
	return schema, nil
}
