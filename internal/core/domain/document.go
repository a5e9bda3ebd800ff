package domain

import "strings"

// DocumentHeader is the metadata block prefixed to an assembled document.
type DocumentHeader struct {
	// Record is the parent record title.
	Record string

	// Section is the fixed section label.
	Section string

	// LastVerified is read from the record's last-verified property.
	LastVerified string

	// URL is the record's canonical URL.
	URL string
}

// AssembledDocument is the rendered text for one parent record.
type AssembledDocument struct {
	// RecordID identifies the parent record.
	RecordID string

	// Title is the parent record title.
	Title string

	// Header is the metadata block.
	Header DocumentHeader

	// Body is the native content followed by the section tables.
	Body string

	// Sections lists the names of the sections included in Body.
	Sections []string

	// Text is the full document: rendered header followed by Body.
	Text string
}

// IsEmpty reports whether the document has no text at all. A document
// with only its header is not empty and is still published.
func (d AssembledDocument) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// HasBody reports whether the document has content beyond its header.
func (d AssembledDocument) HasBody() bool {
	return strings.TrimSpace(d.Body) != ""
}

// Chunk is a bounded-length slice of an assembled document.
type Chunk struct {
	// Filename is the derived file name (sanitised title + 1-based position).
	Filename string

	// Content is the text of this chunk.
	Content string

	// Position is the 1-based sequence number within the document.
	Position int
}

// IndexFilePage is one page of files attached to the search index.
type IndexFilePage struct {
	FileIDs []string
	HasMore bool
	LastID  string
}
