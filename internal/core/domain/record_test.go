package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRow_CanonicalURL(t *testing.T) {
	t.Run("uses row URL", func(t *testing.T) {
		r := Row{ID: "abc-def", URL: "https://example.com/page"}
		assert.Equal(t, "https://example.com/page", r.CanonicalURL())
	})

	t.Run("builds from id", func(t *testing.T) {
		r := Row{ID: "24babcb1-dcc4-80e2"}
		assert.Equal(t, "https://www.notion.so/24babcb1dcc480e2", r.CanonicalURL())
	})

	t.Run("empty without id", func(t *testing.T) {
		assert.Empty(t, Row{}.CanonicalURL())
	})
}

func TestRow_Title(t *testing.T) {
	r := Row{Properties: map[string]FieldValue{
		"Name":  TitleValue{Runs: []string{"Acme ", "Insurance"}},
		"Notes": RichTextValue{Runs: []string{"ignored"}},
	}}
	assert.Equal(t, "Acme Insurance", r.Title())

	assert.Equal(t, UntitledRecord, Row{}.Title())
	assert.Equal(t, UntitledRecord, Row{Properties: map[string]FieldValue{
		"Name": TitleValue{},
	}}.Title())
}

func TestNewSourceRecord(t *testing.T) {
	row := Row{ID: "1", Properties: map[string]FieldValue{
		"Name":           TitleValue{Runs: []string{"Acme"}},
		"Include in GPT": CheckboxValue{Checked: true},
	}}

	rec := NewSourceRecord(row, "Include in GPT")
	assert.Equal(t, "Acme", rec.Name)
	assert.True(t, rec.Include)

	rec = NewSourceRecord(row, "Other")
	assert.False(t, rec.Include)
}

func TestProjectedRow_Get(t *testing.T) {
	p := ProjectedRow{Values: map[string]string{"A": "1"}}
	assert.Equal(t, "1", p.Get("A"))
	assert.Empty(t, p.Get("B"))
}

func TestAssembledDocument_IsEmpty(t *testing.T) {
	headerOnly := AssembledDocument{Text: "---\n---\n", Body: " \n\t"}
	assert.False(t, headerOnly.IsEmpty())
	assert.False(t, headerOnly.HasBody())

	assert.True(t, AssembledDocument{Text: " \n"}.IsEmpty())

	full := AssembledDocument{Text: "---\n---\ncontent", Body: "content"}
	assert.False(t, full.IsEmpty())
	assert.True(t, full.HasBody())
}
