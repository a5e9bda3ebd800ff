package domain

// FieldValue is a typed property value read from the source repository.
// The set of variants is closed: only types declared in this file implement it.
type FieldValue interface {
	fieldValue()
}

// TitleValue holds the text runs of a title property.
type TitleValue struct {
	Runs []string
}

// RichTextValue holds the text runs of a rich text property.
type RichTextValue struct {
	Runs []string
}

// SelectValue holds the chosen option of a select property.
// Name is nil when nothing is selected.
type SelectValue struct {
	Name *string
}

// StatusValue holds the chosen option of a status property.
type StatusValue struct {
	Name *string
}

// MultiSelectValue holds the chosen options of a multi-select property.
type MultiSelectValue struct {
	Names []string
}

// CheckboxValue holds a checkbox state.
type CheckboxValue struct {
	Checked bool
}

// NumberValue holds a number property. Number is nil when the cell is empty.
type NumberValue struct {
	Number *float64
}

// URLValue holds a URL property.
type URLValue struct {
	URL string
}

// EmailValue holds an email property.
type EmailValue struct {
	Email string
}

// PhoneValue holds a phone number property.
type PhoneValue struct {
	Phone string
}

// DateValue holds a date or date range. Start is empty when the cell is empty.
type DateValue struct {
	Start string
	End   string
}

// Person is a user referenced by a people property.
type Person struct {
	ID   string
	Name string
}

// PeopleValue holds a people property.
type PeopleValue struct {
	People []Person
}

// FileRef is one file attached to a files property.
type FileRef struct {
	Name string
	URL  string
}

// FilesValue holds a files property.
type FilesValue struct {
	Files []FileRef
}

// RelationValue holds the ids of related rows.
type RelationValue struct {
	IDs []string
}

// RollupType is the inner type of a rollup result.
type RollupType string

// Rollup result types.
const (
	RollupNumber RollupType = "number"
	RollupDate   RollupType = "date"
	RollupArray  RollupType = "array"
	RollupString RollupType = "string"
)

// RollupValue holds an aggregated value computed from related rows.
type RollupValue struct {
	Type   RollupType
	Number *float64
	Date   *DateValue
	String string
	Array  []FieldValue
}

// FormulaType is the result type of a formula.
type FormulaType string

// Formula result types.
const (
	FormulaString  FormulaType = "string"
	FormulaNumber  FormulaType = "number"
	FormulaBoolean FormulaType = "boolean"
	FormulaDate    FormulaType = "date"
)

// FormulaValue holds a computed formula result.
type FormulaValue struct {
	Type    FormulaType
	String  string
	Number  *float64
	Boolean bool
	Date    *DateValue
}

// UnknownValue holds a property of a type this system does not model.
// Raw keeps the decoded payload, when one is available.
type UnknownValue struct {
	Type string
	Raw  any
}

func (TitleValue) fieldValue()       {}
func (RichTextValue) fieldValue()    {}
func (SelectValue) fieldValue()      {}
func (StatusValue) fieldValue()      {}
func (MultiSelectValue) fieldValue() {}
func (CheckboxValue) fieldValue()    {}
func (NumberValue) fieldValue()      {}
func (URLValue) fieldValue()         {}
func (EmailValue) fieldValue()       {}
func (PhoneValue) fieldValue()       {}
func (DateValue) fieldValue()        {}
func (PeopleValue) fieldValue()      {}
func (FilesValue) fieldValue()       {}
func (RelationValue) fieldValue()    {}
func (RollupValue) fieldValue()      {}
func (FormulaValue) fieldValue()     {}
func (UnknownValue) fieldValue()     {}

// Float returns a pointer to f. Adapters use it to build NumberValue literals.
func Float(f float64) *float64 {
	return &f
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}
