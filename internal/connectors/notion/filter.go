package notion

import (
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// toFilter converts a domain filter. A nil filter converts to nil.
func toFilter(f domain.Filter) (notionapi.Filter, error) {
	switch f := f.(type) {
	case nil:
		return nil, nil
	case domain.AndFilter:
		var and notionapi.AndCompoundFilter
		for _, operand := range []domain.Filter{f.Left, f.Right} {
			nf, err := toFilter(operand)
			if err != nil {
				return nil, err
			}
			if nf == nil {
				continue
			}
			// Flatten nested conjunctions.
			if nested, ok := nf.(notionapi.AndCompoundFilter); ok {
				and = append(and, nested...)
				continue
			}
			and = append(and, nf)
		}
		if len(and) == 1 {
			return and[0], nil
		}
		return and, nil
	case domain.PropertyFilter:
		return toPropertyFilter(f)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedFilter, f)
}

func toPropertyFilter(f domain.PropertyFilter) (notionapi.Filter, error) {
	pf := notionapi.PropertyFilter{Property: f.Property}
	switch f.Kind {
	case domain.FilterSelect:
		pf.Select = &notionapi.SelectFilterCondition{Equals: f.Value}
	case domain.FilterStatus:
		pf.Status = &notionapi.StatusFilterCondition{Equals: f.Value}
	case domain.FilterCheckbox:
		pf.Checkbox = &notionapi.CheckboxFilterCondition{Equals: f.Checked, DoesNotEqual: !f.Checked}
	case domain.FilterMultiSelect:
		pf.MultiSelect = &notionapi.MultiSelectFilterCondition{Contains: f.Value}
	case domain.FilterRelation:
		pf.Relation = &notionapi.RelationFilterCondition{Contains: f.Value}
	case domain.FilterRichText:
		pf.RichText = &notionapi.TextFilterCondition{Contains: f.Value}
	default:
		return nil, fmt.Errorf("%w: kind %q on %q", ErrUnsupportedFilter, f.Kind, f.Property)
	}
	return pf, nil
}

func toSorts(sorts []domain.Sort) []notionapi.SortObject {
	if len(sorts) == 0 {
		return nil
	}
	out := make([]notionapi.SortObject, 0, len(sorts))
	for _, s := range sorts {
		dir := notionapi.SortOrderASC
		if s.Direction == domain.Descending {
			dir = notionapi.SortOrderDESC
		}
		out = append(out, notionapi.SortObject{Property: s.Property, Direction: dir})
	}
	return out
}
