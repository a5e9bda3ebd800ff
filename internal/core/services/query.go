package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// DefaultPageSize is the page size requested from the repository.
const DefaultPageSize = 100

// queryAll pages through every row of tableID matching filter.
// Any page failure aborts the whole query.
func queryAll(
	ctx context.Context,
	repo driven.ContentRepository,
	tableID string,
	filter domain.Filter,
	sorts []domain.Sort,
	pageSize int,
) ([]domain.Row, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var rows []domain.Row
	cursor := ""
	for {
		page, err := repo.QueryRows(ctx, tableID, domain.QueryRequest{
			Filter:   filter,
			Sorts:    sorts,
			Cursor:   cursor,
			PageSize: pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", tableID, err)
		}
		rows = append(rows, page.Rows...)

		if !page.HasMore {
			return rows, nil
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return nil, fmt.Errorf("query %s: %w: repository reported more rows without advancing the cursor",
				tableID, domain.ErrRepositoryUnavailable)
		}
		cursor = page.NextCursor
	}
}
