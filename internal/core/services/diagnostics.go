package services

import (
	"context"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/logger"
)

// ParentDiagnostic is the diagnostic name used for the parent table.
const ParentDiagnostic = "(parent)"

// CheckSections compares each configured table's schema with the columns it
// is expected to provide. Results are informational and never gate a sync.
func (o *SyncOrchestrator) CheckSections(ctx context.Context) ([]domain.SectionDiagnostic, error) {
	diags := make([]domain.SectionDiagnostic, 0, len(o.cfg.Sections)+1)

	diags = append(diags, o.check(ctx, ParentDiagnostic, o.cfg.ParentTableID, "",
		[]string{o.cfg.IncludeProperty, o.assembler.cfg.LastVerifiedProperty}))

	for _, spec := range o.cfg.Sections {
		diags = append(diags, o.check(ctx, spec.Name, spec.TableID, spec.RelationProperty, spec.Columns))
	}

	for _, d := range diags {
		if !d.OK() {
			logger.Warn("Section %s (%s) does not match its configuration", d.Section, d.TableID)
		}
	}
	return diags, ctx.Err()
}

func (o *SyncOrchestrator) check(
	ctx context.Context,
	name, tableID, relation string,
	columns []string,
) domain.SectionDiagnostic {
	diag := domain.SectionDiagnostic{Section: name, TableID: tableID}

	schema, err := o.repo.RetrieveSchema(ctx, tableID)
	if err != nil {
		diag.Error = err.Error()
		return diag
	}
	diag.Reachable = true

	if relation != "" {
		if _, ok := schema[relation]; !ok {
			diag.MissingRelation = true
		}
	}
	for _, col := range columns {
		if _, ok := schema[col]; !ok {
			diag.MissingColumns = append(diag.MissingColumns, col)
		}
	}
	return diag
}
