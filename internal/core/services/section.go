package services

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
	"github.com/custodia-labs/carriersync/internal/logger"
	"github.com/custodia-labs/carriersync/internal/normalisers/properties"
)

// SectionBuilder fetches the linked-table rows belonging to a parent record.
type SectionBuilder struct {
	repo     driven.ContentRepository
	pageSize int
}

// NewSectionBuilder creates a section builder reading from repo.
func NewSectionBuilder(repo driven.ContentRepository, pageSize int) *SectionBuilder {
	return &SectionBuilder{repo: repo, pageSize: pageSize}
}

// Build returns the rows of spec related to parentID, projected onto spec.Columns.
// A failed query yields an empty section; the failure is logged, not returned,
// so one broken table cannot abort assembly of the parent document.
func (b *SectionBuilder) Build(ctx context.Context, spec domain.SectionSpec, parentID string) domain.Section {
	section := domain.Section{Spec: spec}

	filter := domain.And(domain.RelationContains(spec.RelationProperty, parentID), spec.ExtraFilter)
	rows, err := queryAll(ctx, b.repo, spec.TableID, filter, spec.Sort, b.pageSize)
	if err != nil {
		logger.Warn("Section %s for %s treated as empty: %v", spec.Name, parentID, err)
		return section
	}

	opts := []properties.ProjectOption{properties.WithPercentColumns(spec.PercentColumns...)}
	section.Rows = make([]domain.ProjectedRow, 0, len(rows))
	for _, row := range rows {
		section.Rows = append(section.Rows, properties.Project(row, spec.Columns, opts...))
	}

	logger.Debug("Section %s for %s: %d rows", spec.Name, parentID, len(section.Rows))
	return section
}
