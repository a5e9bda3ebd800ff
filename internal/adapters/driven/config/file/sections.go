package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

type sectionsFile struct {
	Sections []sectionEntry `toml:"section"`
}

type sectionEntry struct {
	Name             string       `toml:"name"`
	TableID          string       `toml:"table_id"`
	RelationProperty string       `toml:"relation_property"`
	Columns          []string     `toml:"columns"`
	PercentColumns   []string     `toml:"percent_columns"`
	Sort             []sortEntry  `toml:"sort"`
	Filter           *filterEntry `toml:"filter"`
}

type sortEntry struct {
	Property  string `toml:"property"`
	Direction string `toml:"direction"`
}

type filterEntry struct {
	Property string `toml:"property"`
	Kind     string `toml:"kind"`
	Value    string `toml:"value"`
	Checked  bool   `toml:"checked"`
}

// LoadSections reads section specs from the TOML file at path.
// An empty path yields DefaultSections.
func LoadSections(path string) ([]domain.SectionSpec, error) {
	if path == "" {
		return DefaultSections(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sections file: %w", err)
	}

	specs, err := ParseSections(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// ParseSections decodes and validates a TOML sections document.
func ParseSections(data []byte) ([]domain.SectionSpec, error) {
	var f sectionsFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) && len(serr.Errors) > 0 {
			first := serr.Errors[0]
			row, _ := first.Position()
			return nil, fmt.Errorf("%w: line %d: unknown field %q", domain.ErrInvalidInput, row, strings.Join(first.Key(), "."))
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", domain.ErrInvalidInput, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if len(f.Sections) == 0 {
		return nil, fmt.Errorf("%w: no [[section]] tables defined", domain.ErrInvalidInput)
	}

	specs := make([]domain.SectionSpec, 0, len(f.Sections))
	seen := make(map[string]bool, len(f.Sections))
	for i, e := range f.Sections {
		spec, err := e.toSpec()
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("section %d: %w: duplicate name %q", i+1, domain.ErrInvalidInput, spec.Name)
		}
		seen[spec.Name] = true
		specs = append(specs, spec)
	}
	return specs, nil
}

func (e sectionEntry) toSpec() (domain.SectionSpec, error) {
	switch {
	case e.Name == "":
		return domain.SectionSpec{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case e.TableID == "":
		return domain.SectionSpec{}, fmt.Errorf("%w: %s: table_id is required", domain.ErrInvalidInput, e.Name)
	case e.RelationProperty == "":
		return domain.SectionSpec{}, fmt.Errorf("%w: %s: relation_property is required", domain.ErrInvalidInput, e.Name)
	case len(e.Columns) == 0:
		return domain.SectionSpec{}, fmt.Errorf("%w: %s: columns must not be empty", domain.ErrInvalidInput, e.Name)
	}

	columns := make(map[string]bool, len(e.Columns))
	for _, c := range e.Columns {
		columns[c] = true
	}
	for _, c := range e.PercentColumns {
		if !columns[c] {
			return domain.SectionSpec{}, fmt.Errorf("%w: %s: percent column %q is not in columns",
				domain.ErrInvalidInput, e.Name, c)
		}
	}

	spec := domain.SectionSpec{
		Name:             e.Name,
		TableID:          e.TableID,
		RelationProperty: e.RelationProperty,
		Columns:          e.Columns,
		PercentColumns:   e.PercentColumns,
	}

	for _, s := range e.Sort {
		dir := domain.SortDirection(s.Direction)
		switch dir {
		case "":
			dir = domain.Ascending
		case domain.Ascending, domain.Descending:
		default:
			return domain.SectionSpec{}, fmt.Errorf("%w: %s: sort direction %q", domain.ErrInvalidInput, e.Name, s.Direction)
		}
		if s.Property == "" {
			return domain.SectionSpec{}, fmt.Errorf("%w: %s: sort property is required", domain.ErrInvalidInput, e.Name)
		}
		spec.Sort = append(spec.Sort, domain.Sort{Property: s.Property, Direction: dir})
	}

	if e.Filter != nil {
		kind := domain.FilterKind(e.Filter.Kind)
		if !kind.Valid() {
			return domain.SectionSpec{}, fmt.Errorf("%w: %s: filter kind %q", domain.ErrInvalidInput, e.Name, e.Filter.Kind)
		}
		if e.Filter.Property == "" {
			return domain.SectionSpec{}, fmt.Errorf("%w: %s: filter property is required", domain.ErrInvalidInput, e.Name)
		}
		spec.ExtraFilter = domain.PropertyFilter{
			Property: e.Filter.Property,
			Kind:     kind,
			Value:    e.Filter.Value,
			Checked:  e.Filter.Checked,
		}
	}

	return spec, nil
}

// DefaultSections returns the built-in section configuration.
func DefaultSections() []domain.SectionSpec {
	byLOB := []domain.Sort{{Property: "Line of Business", Direction: domain.Ascending}}
	return []domain.SectionSpec{
		{
			Name:             "Commissions",
			TableID:          "24babcb1-dcc4-80e2-b39b-d73f39623ff6",
			RelationProperty: "Carrier",
			Columns: []string{
				"Line of Business", "Market Type", "New Business", "Renewal",
				"Effective Date", "Conditions", "Notes", "Last Verified",
			},
			PercentColumns: []string{"New Business", "Renewal"},
			Sort:           byLOB,
		},
		{
			Name:             "Contacts",
			TableID:          "3ef0140c-b75d-4a82-a05a-cdb5a64a435a",
			RelationProperty: "Carrier",
			Columns: []string{
				"Contact Name", "Title/Role", "Contact Type",
				"Email", "Direct", "Office", "Cell Phone",
				"Segment", "Type", "Last Verified", "Notes",
			},
			Sort: []domain.Sort{{Property: "Contact Name", Direction: domain.Ascending}},
		},
		{
			Name:             "Endorsements",
			TableID:          "24cabcb1-dcc4-8029-b3e1-e0042afc7d71",
			RelationProperty: "Carrier",
			Columns: []string{
				"Line of Business", "Process", "Request Method",
				"SLA (days)", "Required Docs", "Notes", "Last Verified",
			},
			Sort: byLOB,
		},
	}
}
