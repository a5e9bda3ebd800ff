package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/carriersync/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockRepository implements driven.ContentRepository over in-memory tables.
// Filters and sorts are evaluated in memory; cursors are row offsets.
type mockRepository struct {
	mu        sync.Mutex
	tables    map[string][]domain.Row
	schemas   map[string]domain.TableSchema
	queryErr  map[string]error
	schemaErr error
	queries   map[string]int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		tables:   make(map[string][]domain.Row),
		schemas:  make(map[string]domain.TableSchema),
		queryErr: make(map[string]error),
		queries:  make(map[string]int),
	}
}

var _ driven.ContentRepository = (*mockRepository)(nil)

func (m *mockRepository) QueryRows(_ context.Context, tableID string, req domain.QueryRequest) (*domain.RowPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[tableID]++

	if err := m.queryErr[tableID]; err != nil {
		return nil, err
	}

	var matched []domain.Row
	for _, row := range m.tables[tableID] {
		if matches(row, req.Filter) {
			matched = append(matched, row)
		}
	}
	if len(req.Sorts) > 0 {
		s := req.Sorts[0]
		sort.SliceStable(matched, func(i, j int) bool {
			a := renderForSort(matched[i].Properties[s.Property])
			b := renderForSort(matched[j].Properties[s.Property])
			if s.Direction == domain.Descending {
				return a > b
			}
			return a < b
		})
	}

	start := 0
	if req.Cursor != "" {
		start, _ = strconv.Atoi(req.Cursor)
	}
	end := start + req.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	page := &domain.RowPage{Rows: matched[start:end]}
	if end < len(matched) {
		page.HasMore = true
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (m *mockRepository) RetrieveSchema(_ context.Context, tableID string) (domain.TableSchema, error) {
	if m.schemaErr != nil {
		return nil, m.schemaErr
	}
	s, ok := m.schemas[tableID]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", tableID, domain.ErrNotFound)
	}
	return s, nil
}

func matches(row domain.Row, f domain.Filter) bool {
	switch f := f.(type) {
	case nil:
		return true
	case domain.AndFilter:
		return matches(row, f.Left) && matches(row, f.Right)
	case domain.PropertyFilter:
		v := row.Properties[f.Property]
		switch f.Kind {
		case domain.FilterCheckbox:
			cb, ok := v.(domain.CheckboxValue)
			return ok && cb.Checked == f.Checked
		case domain.FilterRelation:
			rel, ok := v.(domain.RelationValue)
			if !ok {
				return false
			}
			for _, id := range rel.IDs {
				if id == f.Value {
					return true
				}
			}
			return false
		case domain.FilterSelect:
			sel, ok := v.(domain.SelectValue)
			return ok && sel.Name != nil && *sel.Name == f.Value
		}
	}
	return false
}

func renderForSort(v domain.FieldValue) string {
	switch v := v.(type) {
	case domain.TitleValue:
		return strings.Join(v.Runs, "")
	case domain.SelectValue:
		if v.Name != nil {
			return *v.Name
		}
	case domain.RichTextValue:
		return strings.Join(v.Runs, "")
	}
	return ""
}

// mockConverter implements driven.ContentConverter.
type mockConverter struct {
	pages map[string]string
	errs  map[string]error
}

func newMockConverter() *mockConverter {
	return &mockConverter{pages: make(map[string]string), errs: make(map[string]error)}
}

func (c *mockConverter) PageToMarkdown(_ context.Context, pageID string) (string, error) {
	if err := c.errs[pageID]; err != nil {
		return "", err
	}
	return c.pages[pageID], nil
}

// flakyIndex wraps the in-memory index with failure injection.
type flakyIndex struct {
	*memory.Index
	failAttach map[string]bool // by filename
	failCreate map[string]bool // by filename
	failDetach map[string]bool // by file id
	failDelete map[string]bool // by file id or filename
	failList   error
	names      map[string]string
}

func newFlakyIndex() *flakyIndex {
	return &flakyIndex{
		Index:      memory.NewIndex(),
		failAttach: make(map[string]bool),
		failCreate: make(map[string]bool),
		failDetach: make(map[string]bool),
		failDelete: make(map[string]bool),
		names:      make(map[string]string),
	}
}

var errInjected = errors.New("injected failure")

func (f *flakyIndex) CreateFile(ctx context.Context, name, mediaType string, content []byte) (string, error) {
	if f.failCreate[name] {
		return "", errInjected
	}
	id, err := f.Index.CreateFile(ctx, name, mediaType, content)
	f.names[id] = name
	return id, err
}

func (f *flakyIndex) AttachFile(ctx context.Context, fileID string) error {
	if f.failAttach[f.names[fileID]] {
		return errInjected
	}
	return f.Index.AttachFile(ctx, fileID)
}

func (f *flakyIndex) ListFiles(ctx context.Context, after string) (*domain.IndexFilePage, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	return f.Index.ListFiles(ctx, after)
}

func (f *flakyIndex) DetachFile(ctx context.Context, fileID string) error {
	if f.failDetach[fileID] {
		return errInjected
	}
	return f.Index.DetachFile(ctx, fileID)
}

func (f *flakyIndex) DeleteFile(ctx context.Context, fileID string) error {
	if f.failDelete[fileID] || f.failDelete[f.names[fileID]] {
		return errInjected
	}
	return f.Index.DeleteFile(ctx, fileID)
}

// attachedNames returns the names of attached files in upload order.
func attachedNames(x *memory.Index) []string {
	files := x.Attached()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

// --- Fixtures ---

const (
	carriersTable    = "carriers"
	commissionsTable = "commissions"
	contactsTable    = "contacts"
	includeProp      = "Include in GPT"
)

func carrierRow(id, title string, include bool) domain.Row {
	return domain.Row{
		ID:  id,
		URL: "https://www.notion.so/" + id,
		Properties: map[string]domain.FieldValue{
			"Name":          domain.TitleValue{Runs: []string{title}},
			includeProp:     domain.CheckboxValue{Checked: include},
			"Last Verified": domain.DateValue{Start: "2025-06-01"},
		},
	}
}

func commissionRow(id, carrierID, lob string, renewal float64) domain.Row {
	return domain.Row{
		ID: id,
		Properties: map[string]domain.FieldValue{
			"Carrier":          domain.RelationValue{IDs: []string{carrierID}},
			"Line of Business": domain.SelectValue{Name: domain.String(lob)},
			"Renewal":          domain.NumberValue{Number: domain.Float(renewal)},
		},
	}
}

func commissionsSpec() domain.SectionSpec {
	return domain.SectionSpec{
		Name:             "Commissions",
		TableID:          commissionsTable,
		RelationProperty: "Carrier",
		Columns:          []string{"Line of Business", "Renewal"},
		PercentColumns:   []string{"Renewal"},
		Sort:             []domain.Sort{{Property: "Line of Business", Direction: domain.Ascending}},
	}
}

func contactsSpec() domain.SectionSpec {
	return domain.SectionSpec{
		Name:             "Contacts",
		TableID:          contactsTable,
		RelationProperty: "Carrier",
		Columns:          []string{"Contact Name"},
	}
}
