package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

func TestSectionBuilder_Build(t *testing.T) {
	repo := newMockRepository()
	repo.tables[commissionsTable] = []domain.Row{
		commissionRow("m1", "c1", "Property", 0.15),
		commissionRow("m2", "c2", "Marine", 0.2),
		commissionRow("m3", "c1", "Auto", 0.005),
	}

	builder := NewSectionBuilder(repo, 0)
	section := builder.Build(context.Background(), commissionsSpec(), "c1")

	require.Len(t, section.Rows, 2)
	assert.Equal(t, "Commissions", section.Spec.Name)
	assert.Equal(t, "Auto", section.Rows[0].Get("Line of Business"))
	assert.Equal(t, "0.50%", section.Rows[0].Get("Renewal"))
	assert.Equal(t, "Property", section.Rows[1].Get("Line of Business"))
	assert.Equal(t, "15%", section.Rows[1].Get("Renewal"))
	assert.Equal(t, "https://www.notion.so/m3", section.Rows[0].URL)
}

func TestSectionBuilder_Build_Paginates(t *testing.T) {
	repo := newMockRepository()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		repo.tables[commissionsTable] = append(repo.tables[commissionsTable],
			commissionRow(id, "c1", "LOB "+id, 0.1))
	}

	section := NewSectionBuilder(repo, 2).Build(context.Background(), commissionsSpec(), "c1")

	assert.Len(t, section.Rows, 5)
	assert.Equal(t, 3, repo.queries[commissionsTable])
}

func TestSectionBuilder_Build_ExtraFilter(t *testing.T) {
	repo := newMockRepository()
	repo.tables[commissionsTable] = []domain.Row{
		commissionRow("m1", "c1", "Property", 0.15),
		commissionRow("m2", "c1", "Auto", 0.1),
	}

	spec := commissionsSpec()
	spec.ExtraFilter = domain.PropertyFilter{Property: "Line of Business", Kind: domain.FilterSelect, Value: "Auto"}

	section := NewSectionBuilder(repo, 0).Build(context.Background(), spec, "c1")

	require.Len(t, section.Rows, 1)
	assert.Equal(t, "Auto", section.Rows[0].Get("Line of Business"))
}

func TestSectionBuilder_Build_QueryFailureYieldsEmpty(t *testing.T) {
	repo := newMockRepository()
	repo.queryErr[commissionsTable] = errors.New("table unavailable")

	section := NewSectionBuilder(repo, 0).Build(context.Background(), commissionsSpec(), "c1")

	assert.Empty(t, section.Rows)
	assert.Equal(t, "Commissions", section.Spec.Name)
}

func TestSectionBuilder_Build_MissingColumnRendersEmpty(t *testing.T) {
	repo := newMockRepository()
	repo.tables[commissionsTable] = []domain.Row{commissionRow("m1", "c1", "Property", 0.15)}

	spec := commissionsSpec()
	spec.Columns = append(spec.Columns, "Notes")

	section := NewSectionBuilder(repo, 0).Build(context.Background(), spec, "c1")

	require.Len(t, section.Rows, 1)
	assert.Equal(t, "", section.Rows[0].Get("Notes"))
}

func TestSectionBuilder_Build_Idempotent(t *testing.T) {
	repo := newMockRepository()
	repo.tables[commissionsTable] = []domain.Row{
		commissionRow("m1", "c1", "Property", 0.15),
		commissionRow("m2", "c1", "Auto", 0.005),
	}
	builder := NewSectionBuilder(repo, 1)

	first := builder.Build(context.Background(), commissionsSpec(), "c1")
	second := builder.Build(context.Background(), commissionsSpec(), "c1")

	assert.Equal(t, first, second)
}

func TestQueryAll_StalledCursor(t *testing.T) {
	repo := &stalledRepository{}

	_, err := queryAll(context.Background(), repo, "t", nil, nil, 10)

	assert.ErrorIs(t, err, domain.ErrRepositoryUnavailable)
}

// stalledRepository always reports more rows without moving the cursor.
type stalledRepository struct{}

func (stalledRepository) QueryRows(_ context.Context, _ string, req domain.QueryRequest) (*domain.RowPage, error) {
	return &domain.RowPage{HasMore: true, NextCursor: req.Cursor}, nil
}

func (stalledRepository) RetrieveSchema(context.Context, string) (domain.TableSchema, error) {
	return domain.TableSchema{}, nil
}
