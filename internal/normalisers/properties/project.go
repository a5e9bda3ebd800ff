package properties

import (
	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/logger"
)

// ProjectOption configures a projection.
type ProjectOption func(*projection)

type projection struct {
	percent map[string]bool
}

// WithPercentColumns renders the numeric values of the named columns through Percentify.
func WithPercentColumns(columns ...string) ProjectOption {
	return func(p *projection) {
		for _, c := range columns {
			p.percent[c] = true
		}
	}
}

// Project flattens row to the rendered values of columns.
// Absent columns render as "". The row id and canonical URL are always attached.
func Project(row domain.Row, columns []string, opts ...ProjectOption) domain.ProjectedRow {
	p := &projection{percent: make(map[string]bool)}
	for _, opt := range opts {
		opt(p)
	}

	out := domain.ProjectedRow{
		ID:     row.ID,
		URL:    row.CanonicalURL(),
		Values: make(map[string]string, len(columns)),
	}
	for _, col := range columns {
		out.Values[col] = p.render(row.ID, col, row.Properties[col])
	}
	return out
}

// render renders a single cell. A panic while rendering empties the cell
// instead of losing the row.
func (p *projection) render(rowID, column string, v domain.FieldValue) (s string) {
	if v == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("render %q of row %s: %v", column, rowID, r)
			s = ""
		}
	}()
	if p.percent[column] {
		if n, ok := NumberOf(v); ok {
			return Percentify(n)
		}
	}
	return Render(v)
}
