package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// convertProperties converts every property of a page.
func convertProperties(props notionapi.Properties) map[string]domain.FieldValue {
	out := make(map[string]domain.FieldValue, len(props))
	for name, p := range props {
		out[name] = convertProperty(p)
	}
	return out
}

// convertProperty converts one Notion property into a domain value.
func convertProperty(p notionapi.Property) domain.FieldValue {
	switch p := p.(type) {
	case *notionapi.TitleProperty:
		return domain.TitleValue{Runs: plainRuns(p.Title)}
	case *notionapi.RichTextProperty:
		return domain.RichTextValue{Runs: plainRuns(p.RichText)}
	case *notionapi.SelectProperty:
		return domain.SelectValue{Name: optionName(p.Select)}
	case *notionapi.StatusProperty:
		return domain.StatusValue{Name: optionName(p.Status)}
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return domain.MultiSelectValue{Names: names}
	case *notionapi.CheckboxProperty:
		return domain.CheckboxValue{Checked: p.Checkbox}
	case *notionapi.NumberProperty:
		return domain.NumberValue{Number: domain.Float(p.Number)}
	case *notionapi.URLProperty:
		return domain.URLValue{URL: p.URL}
	case *notionapi.EmailProperty:
		return domain.EmailValue{Email: p.Email}
	case *notionapi.PhoneNumberProperty:
		return domain.PhoneValue{Phone: p.PhoneNumber}
	case *notionapi.DateProperty:
		return dateValue(p.Date)
	case *notionapi.PeopleProperty:
		people := make([]domain.Person, 0, len(p.People))
		for _, u := range p.People {
			people = append(people, domain.Person{ID: string(u.ID), Name: u.Name})
		}
		return domain.PeopleValue{People: people}
	case *notionapi.FilesProperty:
		files := make([]domain.FileRef, 0, len(p.Files))
		for _, f := range p.Files {
			files = append(files, domain.FileRef{Name: f.Name, URL: fileURL(f)})
		}
		return domain.FilesValue{Files: files}
	case *notionapi.RelationProperty:
		ids := make([]string, 0, len(p.Relation))
		for _, r := range p.Relation {
			ids = append(ids, string(r.ID))
		}
		return domain.RelationValue{IDs: ids}
	case *notionapi.RollupProperty:
		return convertRollup(p.Rollup)
	case *notionapi.FormulaProperty:
		return convertFormula(p.Formula)
	case nil:
		return nil
	default:
		return domain.UnknownValue{Type: string(p.GetType()), Raw: p}
	}
}

func convertRollup(r notionapi.Rollup) domain.FieldValue {
	switch string(r.Type) {
	case string(domain.RollupNumber):
		return domain.RollupValue{Type: domain.RollupNumber, Number: domain.Float(r.Number)}
	case string(domain.RollupDate):
		d := dateValue(r.Date)
		return domain.RollupValue{Type: domain.RollupDate, Date: &d}
	case string(domain.RollupArray):
		items := make([]domain.FieldValue, 0, len(r.Array))
		for _, item := range r.Array {
			items = append(items, convertProperty(item))
		}
		return domain.RollupValue{Type: domain.RollupArray, Array: items}
	}
	return domain.UnknownValue{Type: "rollup:" + string(r.Type), Raw: r}
}

func convertFormula(f notionapi.Formula) domain.FieldValue {
	switch string(f.Type) {
	case string(domain.FormulaString):
		return domain.FormulaValue{Type: domain.FormulaString, String: f.String}
	case string(domain.FormulaNumber):
		return domain.FormulaValue{Type: domain.FormulaNumber, Number: domain.Float(f.Number)}
	case string(domain.FormulaBoolean):
		return domain.FormulaValue{Type: domain.FormulaBoolean, Boolean: f.Boolean}
	case string(domain.FormulaDate):
		d := dateValue(f.Date)
		return domain.FormulaValue{Type: domain.FormulaDate, Date: &d}
	}
	return domain.UnknownValue{Type: "formula:" + string(f.Type), Raw: f}
}

func plainRuns(rt []notionapi.RichText) []string {
	runs := make([]string, 0, len(rt))
	for _, t := range rt {
		runs = append(runs, t.PlainText)
	}
	return runs
}

func plainText(rt []notionapi.RichText) string {
	return strings.Join(plainRuns(rt), "")
}

// optionName returns nil for an unset select or status.
func optionName(o notionapi.Option) *string {
	if o.Name == "" {
		return nil
	}
	return domain.String(o.Name)
}

func fileURL(f notionapi.File) string {
	switch {
	case f.File != nil:
		return f.File.URL
	case f.External != nil:
		return f.External.URL
	}
	return ""
}

func dateValue(d *notionapi.DateObject) domain.DateValue {
	if d == nil {
		return domain.DateValue{}
	}
	return domain.DateValue{Start: formatDate(d.Start), End: formatDate(d.End)}
}

// formatDate renders date-only values as YYYY-MM-DD and datetimes as RFC 3339.
func formatDate(d *notionapi.Date) string {
	if d == nil {
		return ""
	}
	t := time.Time(*d)
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
