package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

func text(s string) string {
	return fmt.Sprintf(`{"type": "text", "text": {"content": %q}, "plain_text": %q}`, s, s)
}

func richBlock(id, typ string, hasChildren bool, extra string, runs ...string) string {
	body := fmt.Sprintf(`"rich_text": [%s]`, strings.Join(runs, ","))
	if extra != "" {
		body += ", " + extra
	}
	return fmt.Sprintf(`{"object": "block", "id": %q, "type": %q, "has_children": %t, %q: {%s}}`,
		id, typ, hasChildren, typ, body)
}

func childrenResponse(hasMore bool, next string, blocks ...string) string {
	cursor := "null"
	if next != "" {
		cursor = fmt.Sprintf("%q", next)
	}
	return fmt.Sprintf(`{"object": "list", "results": [%s], "has_more": %t, "next_cursor": %s}`,
		strings.Join(blocks, ","), hasMore, cursor)
}

// blockServer serves fixed children responses keyed by block id and cursor.
func blockServer(t *testing.T, pages map[string]string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/blocks/{id}/children", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("id")
		if c := r.URL.Query().Get("start_cursor"); c != "" {
			key += "@" + c
		}
		body, ok := pages[key]
		if !ok {
			writeJSON(w, http.StatusNotFound, `{"object": "error", "status": 404, "code": "object_not_found", "message": "no block"}`)
			return
		}
		writeJSON(w, http.StatusOK, body)
	})
	return mux
}

func TestConverter_PageToMarkdown(t *testing.T) {
	pages := map[string]string{
		"page": childrenResponse(false, "",
			richBlock("h1", "heading_1", false, "", text("Overview")),
			richBlock("p1", "paragraph", false, "", text("Appetite: "),
				`{"type": "text", "text": {"content": "small fleets"}, "annotations": {"bold": true}, "plain_text": "small fleets"}`),
			richBlock("b1", "bulleted_list_item", false, "", text("Auto")),
			richBlock("b2", "bulleted_list_item", true, "", text("Property")),
			richBlock("n1", "numbered_list_item", false, "", text("Call")),
			richBlock("n2", "numbered_list_item", false, "", text("Email")),
			`{"object": "block", "id": "d1", "type": "divider", "has_children": false, "divider": {}}`,
			richBlock("c1", "code", false, `"language": "json"`, text(`{"a": 1}`)),
			richBlock("t1", "to_do", false, `"checked": true`, text("Verified")),
			richBlock("q1", "quote", false, "", text("Quoted")),
		),
		"b2": childrenResponse(false, "",
			richBlock("b2a", "bulleted_list_item", false, "", text("Homeowners")),
		),
	}
	conv := NewConverter(newTestClient(t, blockServer(t, pages)))

	got, err := conv.PageToMarkdown(context.Background(), "page")
	require.NoError(t, err)

	want := "# Overview\n\n" +
		"Appetite: **small fleets**\n\n" +
		"- Auto\n" +
		"- Property\n" +
		"  - Homeowners\n" +
		"1. Call\n" +
		"2. Email\n\n" +
		"---\n\n" +
		"```json\n{\"a\": 1}\n```\n\n" +
		"- [x] Verified\n\n" +
		"> Quoted"
	assert.Equal(t, want, got)
}

func TestConverter_PageToMarkdown_Paginates(t *testing.T) {
	pages := map[string]string{
		"page":         childrenResponse(true, "next-1", richBlock("p1", "paragraph", false, "", text("first"))),
		"page@next-1": childrenResponse(false, "", richBlock("p2", "paragraph", false, "", text("second"))),
	}
	conv := NewConverter(newTestClient(t, blockServer(t, pages)))

	got, err := conv.PageToMarkdown(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", got)
}

func TestConverter_PageToMarkdown_Table(t *testing.T) {
	row := func(id string, cells ...string) string {
		var cs []string
		for _, c := range cells {
			cs = append(cs, "["+text(c)+"]")
		}
		return fmt.Sprintf(`{"object": "block", "id": %q, "type": "table_row", "has_children": false,
			"table_row": {"cells": [%s]}}`, id, strings.Join(cs, ","))
	}
	pages := map[string]string{
		"page": childrenResponse(false, "",
			`{"object": "block", "id": "tbl", "type": "table", "has_children": true,
				"table": {"table_width": 2, "has_column_header": true, "has_row_header": false}}`),
		"tbl": childrenResponse(false, "", row("r1", "State", "Rate"), row("r2", "CA", "10%")),
	}
	conv := NewConverter(newTestClient(t, blockServer(t, pages)))

	got, err := conv.PageToMarkdown(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "| State | Rate |\n| --- | --- |\n| CA | 10% |", got)
}

func TestConverter_PageToMarkdown_Empty(t *testing.T) {
	pages := map[string]string{"page": childrenResponse(false, "")}
	conv := NewConverter(newTestClient(t, blockServer(t, pages)))

	got, err := conv.PageToMarkdown(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestConverter_PageToMarkdown_Failure(t *testing.T) {
	conv := NewConverter(newTestClient(t, blockServer(t, map[string]string{})))

	_, err := conv.PageToMarkdown(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
