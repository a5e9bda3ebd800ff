package domain

import "strings"

// UntitledRecord is the title used when a record has no title text.
const UntitledRecord = "Untitled"

// canonicalURLBase prefixes row ids that carry no URL of their own.
const canonicalURLBase = "https://www.notion.so/"

// Row is one row of a source repository table.
type Row struct {
	// ID is the stable row identifier.
	ID string

	// URL is the canonical link to the row. May be empty.
	URL string

	// Properties maps property names to typed values.
	Properties map[string]FieldValue
}

// CanonicalURL returns the row URL, constructing one from the id if the row carries none.
func (r Row) CanonicalURL() string {
	if r.URL != "" {
		return r.URL
	}
	if r.ID == "" {
		return ""
	}
	return canonicalURLBase + strings.ReplaceAll(r.ID, "-", "")
}

// Title returns the plain text of the row's title property, or UntitledRecord.
func (r Row) Title() string {
	for _, v := range r.Properties {
		t, ok := v.(TitleValue)
		if !ok {
			continue
		}
		if text := strings.Join(t.Runs, ""); text != "" {
			return text
		}
	}
	return UntitledRecord
}

// SourceRecord is a parent row considered for indexing.
type SourceRecord struct {
	Row

	// Name is the resolved title.
	Name string

	// Include reports whether the record's include flag is set.
	Include bool
}

// NewSourceRecord builds a SourceRecord from a parent table row.
// includeProperty names the checkbox that controls eligibility.
func NewSourceRecord(row Row, includeProperty string) SourceRecord {
	rec := SourceRecord{Row: row, Name: row.Title()}
	if cb, ok := row.Properties[includeProperty].(CheckboxValue); ok {
		rec.Include = cb.Checked
	}
	return rec
}

// ProjectedRow is a table row flattened to rendered strings.
type ProjectedRow struct {
	ID     string
	URL    string
	Values map[string]string
}

// Get returns the rendered value of column, or "" when absent.
func (p ProjectedRow) Get(column string) string {
	return p.Values[column]
}

// TableSchema maps property names to their source type names.
type TableSchema map[string]string

// QueryRequest describes one page of a table query.
type QueryRequest struct {
	Filter   Filter
	Sorts    []Sort
	Cursor   string
	PageSize int
}

// RowPage is one page of query results.
type RowPage struct {
	Rows       []Row
	HasMore    bool
	NextCursor string
}
