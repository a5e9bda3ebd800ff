package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
	"github.com/custodia-labs/carriersync/internal/normalisers/markdown"
	"github.com/custodia-labs/carriersync/internal/normalisers/properties"
)

// Default assembly settings.
const (
	DefaultSectionLabel         = "Carrier Page"
	DefaultRecordKey            = "carrier"
	DefaultLastVerifiedProperty = "Last Verified"
)

// AssemblerConfig controls the metadata header of assembled documents.
type AssemblerConfig struct {
	// SectionLabel is the fixed section label written to the header.
	SectionLabel string

	// RecordKey names the record field in the header.
	RecordKey string

	// LastVerifiedProperty is the record property read into last_verified.
	LastVerifiedProperty string
}

func (c AssemblerConfig) withDefaults() AssemblerConfig {
	if c.SectionLabel == "" {
		c.SectionLabel = DefaultSectionLabel
	}
	if c.RecordKey == "" {
		c.RecordKey = DefaultRecordKey
	}
	if c.LastVerifiedProperty == "" {
		c.LastVerifiedProperty = DefaultLastVerifiedProperty
	}
	return c
}

// Assembler renders a parent record and its sections into one document.
type Assembler struct {
	converter driven.ContentConverter
	builder   *SectionBuilder
	sections  []domain.SectionSpec
	cfg       AssemblerConfig
}

// NewAssembler creates an assembler appending sections, in order, to each record.
func NewAssembler(
	converter driven.ContentConverter,
	builder *SectionBuilder,
	sections []domain.SectionSpec,
	cfg AssemblerConfig,
) *Assembler {
	return &Assembler{
		converter: converter,
		builder:   builder,
		sections:  sections,
		cfg:       cfg.withDefaults(),
	}
}

// Assemble builds the document for rec. Sections with no rows are omitted.
// Only a failure to convert the record's own content is returned.
func (a *Assembler) Assemble(ctx context.Context, rec domain.SourceRecord) (*domain.AssembledDocument, error) {
	native, err := a.converter.PageToMarkdown(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("convert content of %s: %w", rec.ID, err)
	}

	doc := &domain.AssembledDocument{
		RecordID: rec.ID,
		Title:    rec.Name,
		Header: domain.DocumentHeader{
			Record:       rec.Name,
			Section:      a.cfg.SectionLabel,
			LastVerified: properties.Render(rec.Properties[a.cfg.LastVerifiedProperty]),
			URL:          rec.CanonicalURL(),
		},
	}

	var parts []string
	if native = strings.TrimSpace(native); native != "" {
		parts = append(parts, native)
	}
	for _, spec := range a.sections {
		section := a.builder.Build(ctx, spec, rec.ID)
		if len(section.Rows) == 0 {
			continue
		}
		parts = append(parts, strings.TrimRight(markdown.Section(section), "\n"))
		doc.Sections = append(doc.Sections, spec.Name)
	}

	if len(parts) > 0 {
		doc.Body = strings.Join(parts, "\n\n") + "\n"
	}
	doc.Text = markdown.FrontMatter(a.cfg.RecordKey, doc.Header) + doc.Body
	return doc, nil
}
