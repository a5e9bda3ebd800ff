// Package properties renders typed repository property values to display text.
//
// Rendering is total: every FieldValue variant, including empty payloads
// and unknown types, renders to a string without failing.
package properties

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// listSeparator joins multi-valued properties.
const listSeparator = ", "

// Render returns the display text of v.
func Render(v domain.FieldValue) string {
	switch v := v.(type) {
	case domain.TitleValue:
		return strings.Join(v.Runs, "")
	case domain.RichTextValue:
		return strings.Join(v.Runs, "")
	case domain.SelectValue:
		return deref(v.Name)
	case domain.StatusValue:
		return deref(v.Name)
	case domain.MultiSelectValue:
		return strings.Join(v.Names, listSeparator)
	case domain.CheckboxValue:
		return strconv.FormatBool(v.Checked)
	case domain.NumberValue:
		return formatNumber(v.Number)
	case domain.URLValue:
		return v.URL
	case domain.EmailValue:
		return v.Email
	case domain.PhoneValue:
		return v.Phone
	case domain.DateValue:
		return renderDate(&v)
	case domain.PeopleValue:
		return renderPeople(v.People)
	case domain.FilesValue:
		return renderFiles(v.Files)
	case domain.RelationValue:
		return strings.Join(v.IDs, listSeparator)
	case domain.RollupValue:
		return renderRollup(v)
	case domain.FormulaValue:
		return renderFormula(v)
	default:
		return ""
	}
}

// NumberOf extracts a numeric payload from number, formula and rollup values.
func NumberOf(v domain.FieldValue) (*float64, bool) {
	switch v := v.(type) {
	case domain.NumberValue:
		return v.Number, true
	case domain.FormulaValue:
		if v.Type == domain.FormulaNumber {
			return v.Number, true
		}
	case domain.RollupValue:
		if v.Type == domain.RollupNumber {
			return v.Number, true
		}
	}
	return nil, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatNumber(n *float64) string {
	if n == nil || math.IsNaN(*n) || math.IsInf(*n, 0) {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}

func renderDate(d *domain.DateValue) string {
	if d == nil || d.Start == "" {
		return ""
	}
	if d.End != "" {
		return d.Start + " → " + d.End
	}
	return d.Start
}

func renderPeople(people []domain.Person) string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p.Name != "" {
			names = append(names, p.Name)
		} else {
			names = append(names, p.ID)
		}
	}
	return strings.Join(names, listSeparator)
}

func renderFiles(files []domain.FileRef) string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if f.URL != "" {
			urls = append(urls, f.URL)
		}
	}
	return strings.Join(urls, listSeparator)
}

func renderRollup(r domain.RollupValue) string {
	switch r.Type {
	case domain.RollupNumber:
		return formatNumber(r.Number)
	case domain.RollupDate:
		return renderDate(r.Date)
	case domain.RollupString:
		return r.String
	case domain.RollupArray:
		items := make([]string, 0, len(r.Array))
		for _, item := range r.Array {
			if s := renderArrayItem(item); s != "" {
				items = append(items, s)
			}
		}
		return strings.Join(items, listSeparator)
	default:
		return ""
	}
}

// renderArrayItem renders one rollup element, falling back to the JSON
// encoding of payloads with no known shape.
func renderArrayItem(v domain.FieldValue) string {
	u, ok := v.(domain.UnknownValue)
	if !ok {
		return Render(v)
	}
	if u.Raw == nil {
		return ""
	}
	b, err := json.Marshal(u.Raw)
	if err != nil {
		return fmt.Sprint(u.Raw)
	}
	return string(b)
}

func renderFormula(f domain.FormulaValue) string {
	switch f.Type {
	case domain.FormulaString:
		return f.String
	case domain.FormulaNumber:
		return formatNumber(f.Number)
	case domain.FormulaBoolean:
		return strconv.FormatBool(f.Boolean)
	case domain.FormulaDate:
		return renderDate(f.Date)
	default:
		return ""
	}
}
