package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

func newTestAssembler(repo *mockRepository, conv *mockConverter) *Assembler {
	return NewAssembler(conv, NewSectionBuilder(repo, 0),
		[]domain.SectionSpec{commissionsSpec(), contactsSpec()}, AssemblerConfig{})
}

func TestAssembler_Assemble(t *testing.T) {
	repo := newMockRepository()
	repo.tables[commissionsTable] = []domain.Row{
		commissionRow("m1", "c1", "Property", 0.15),
		commissionRow("m2", "c1", "Auto", 0.005),
	}
	conv := newMockConverter()
	conv.pages["c1"] = "Intro text\n"

	rec := domain.NewSourceRecord(carrierRow("c1", "Acme", true), includeProp)
	doc, err := newTestAssembler(repo, conv).Assemble(context.Background(), rec)
	require.NoError(t, err)

	want := "---\n" +
		"carrier: Acme\n" +
		"section: Carrier Page\n" +
		"last_verified: 2025-06-01\n" +
		"notion_url: https://www.notion.so/c1\n" +
		"---\n\n" +
		"Intro text\n\n" +
		"## Commissions\n\n" +
		"| Line of Business | Renewal |\n" +
		"| --- | --- |\n" +
		"| Auto | 0.50% |\n" +
		"| Property | 15% |\n"
	assert.Equal(t, want, doc.Text)
	assert.Equal(t, []string{"Commissions"}, doc.Sections)
	assert.Equal(t, "Acme", doc.Title)
	assert.False(t, doc.IsEmpty())
}

func TestAssembler_Assemble_OmitsEmptySections(t *testing.T) {
	repo := newMockRepository()
	conv := newMockConverter()
	conv.pages["c1"] = "Intro"

	rec := domain.NewSourceRecord(carrierRow("c1", "Acme", true), includeProp)
	doc, err := newTestAssembler(repo, conv).Assemble(context.Background(), rec)
	require.NoError(t, err)

	assert.NotContains(t, doc.Text, "## Commissions")
	assert.NotContains(t, doc.Text, "## Contacts")
	assert.Empty(t, doc.Sections)
	assert.Equal(t, "Intro\n", doc.Body)
}

func TestAssembler_Assemble_SectionsOnly(t *testing.T) {
	repo := newMockRepository()
	repo.tables[commissionsTable] = []domain.Row{commissionRow("m1", "c1", "Property", 0.15)}
	conv := newMockConverter()

	rec := domain.NewSourceRecord(carrierRow("c1", "Acme", true), includeProp)
	doc, err := newTestAssembler(repo, conv).Assemble(context.Background(), rec)
	require.NoError(t, err)

	assert.False(t, doc.IsEmpty())
	assert.Contains(t, doc.Body, "## Commissions")
}

func TestAssembler_Assemble_HeaderOnly(t *testing.T) {
	conv := newMockConverter()
	conv.pages["c1"] = "  \n\n"

	rec := domain.NewSourceRecord(carrierRow("c1", "Acme", true), includeProp)
	doc, err := newTestAssembler(newMockRepository(), conv).Assemble(context.Background(), rec)
	require.NoError(t, err)

	assert.False(t, doc.HasBody())
	assert.False(t, doc.IsEmpty())
	assert.Contains(t, doc.Text, "carrier: Acme")
}

func TestAssembler_Assemble_ConversionFailure(t *testing.T) {
	conv := newMockConverter()
	conv.errs["c1"] = errors.New("blocks unavailable")

	rec := domain.NewSourceRecord(carrierRow("c1", "Acme", true), includeProp)
	_, err := newTestAssembler(newMockRepository(), conv).Assemble(context.Background(), rec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocks unavailable")
}

func TestAssembler_Assemble_CustomHeader(t *testing.T) {
	conv := newMockConverter()
	conv.pages["c1"] = "Intro"

	row := carrierRow("c1", "Acme", true)
	row.Properties["Reviewed"] = domain.DateValue{Start: "2024-12-31"}
	rec := domain.NewSourceRecord(row, includeProp)

	a := NewAssembler(conv, NewSectionBuilder(newMockRepository(), 0), nil, AssemblerConfig{
		SectionLabel:         "Partner Page",
		RecordKey:            "partner",
		LastVerifiedProperty: "Reviewed",
	})
	doc, err := a.Assemble(context.Background(), rec)
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "partner: Acme\nsection: Partner Page\nlast_verified: 2024-12-31\n")
}
