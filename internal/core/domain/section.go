package domain

// FilterKind names the property type a filter predicate applies to.
// The kind also fixes the operator: select, status and checkbox compare
// with equality; multi-select, relation and rich text use containment.
type FilterKind string

// Supported filter kinds.
const (
	FilterSelect      FilterKind = "select"
	FilterMultiSelect FilterKind = "multi_select"
	FilterRelation    FilterKind = "relation"
	FilterStatus      FilterKind = "status"
	FilterRichText    FilterKind = "rich_text"
	FilterCheckbox    FilterKind = "checkbox"
)

// Valid reports whether k is a supported filter kind.
func (k FilterKind) Valid() bool {
	switch k {
	case FilterSelect, FilterMultiSelect, FilterRelation, FilterStatus, FilterRichText, FilterCheckbox:
		return true
	}
	return false
}

// Filter is a predicate over table rows.
type Filter interface {
	filter()
}

// PropertyFilter matches rows by a single property.
type PropertyFilter struct {
	Property string
	Kind     FilterKind

	// Value is compared for every kind except checkbox.
	Value string

	// Checked is compared for checkbox filters.
	Checked bool
}

// AndFilter matches rows satisfying both operands.
type AndFilter struct {
	Left  Filter
	Right Filter
}

func (PropertyFilter) filter() {}
func (AndFilter) filter()      {}

// RelationContains matches rows whose relation property links to id.
func RelationContains(property, id string) PropertyFilter {
	return PropertyFilter{Property: property, Kind: FilterRelation, Value: id}
}

// CheckboxEquals matches rows whose checkbox property equals checked.
func CheckboxEquals(property string, checked bool) PropertyFilter {
	return PropertyFilter{Property: property, Kind: FilterCheckbox, Checked: checked}
}

// And conjoins two filters. A nil operand is dropped.
func And(left, right Filter) Filter {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	return AndFilter{Left: left, Right: right}
}

// SortDirection orders query results.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// Sort orders results by a property.
type Sort struct {
	Property  string
	Direction SortDirection
}

// SectionSpec describes one linked table appended to a parent document.
// It is configuration data and is never mutated at runtime.
type SectionSpec struct {
	// Name is the section title rendered above the table.
	Name string

	// TableID identifies the linked table.
	TableID string

	// RelationProperty is the relation linking rows back to the parent record.
	RelationProperty string

	// Columns is the ordered list of properties to project.
	Columns []string

	// PercentColumns lists numeric columns rendered as percentages.
	PercentColumns []string

	// ExtraFilter is conjoined with the relation filter when set.
	ExtraFilter Filter

	// Sort orders the section rows.
	Sort []Sort
}

// IsPercentColumn reports whether column is rendered as a percentage.
func (s SectionSpec) IsPercentColumn(column string) bool {
	for _, c := range s.PercentColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Section is a built section: its spec and the projected rows.
type Section struct {
	Spec SectionSpec
	Rows []ProjectedRow
}

// SectionDiagnostic reports schema problems for one configured section.
type SectionDiagnostic struct {
	Section         string   `json:"section"`
	TableID         string   `json:"table_id"`
	Reachable       bool     `json:"reachable"`
	Error           string   `json:"error,omitempty"`
	MissingRelation bool     `json:"missing_relation,omitempty"`
	MissingColumns  []string `json:"missing_columns,omitempty"`
}

// OK reports whether the section table matched its configuration.
func (d SectionDiagnostic) OK() bool {
	return d.Reachable && !d.MissingRelation && len(d.MissingColumns) == 0
}
