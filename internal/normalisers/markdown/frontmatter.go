package markdown

import (
	"strings"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// FrontMatter renders the metadata header of an assembled document.
// recordKey names the record field, e.g. "carrier".
func FrontMatter(recordKey string, h domain.DocumentHeader) string {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, recordKey, h.Record)
	writeField(&b, "section", h.Section)
	writeField(&b, "last_verified", h.LastVerified)
	writeField(&b, "notion_url", h.URL)
	b.WriteString("---\n\n")
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(strings.ReplaceAll(value, "\n", " "))
	b.WriteString("\n")
}
