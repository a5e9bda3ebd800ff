// Package markdown renders assembled document parts as markdown.
package markdown

import (
	"strings"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// EmptyTablePlaceholder is rendered in place of a table with no rows.
const EmptyTablePlaceholder = "_No rows._"

// cellReplacer flattens a value so it fits in one table cell.
var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`)

// Table renders a titled markdown table of rows projected onto columns.
func Table(title string, columns []string, rows []domain.ProjectedRow) string {
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n\n")

	if len(rows) == 0 {
		b.WriteString(EmptyTablePlaceholder)
		b.WriteString("\n")
		return b.String()
	}

	writeLine(&b, columns, cell)

	sep := make([]string, len(columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeLine(&b, sep, func(s string) string { return s })

	for _, row := range rows {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = row.Get(col)
		}
		writeLine(&b, values, cell)
	}
	return b.String()
}

// Section renders a built section as a titled table.
func Section(s domain.Section) string {
	return Table(s.Spec.Name, s.Spec.Columns, s.Rows)
}

func writeLine(b *strings.Builder, values []string, format func(string) string) {
	b.WriteString("|")
	for _, v := range values {
		b.WriteString(" ")
		b.WriteString(format(v))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.TrimSpace(cellReplacer.Replace(s))
}
