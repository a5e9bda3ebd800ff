package notion

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// notionapi decodes "number": null as 0. nullNumbers records, per page id,
// which properties carried a null number so the converted value can be
// reset to unset.
type nullNumbers struct {
	mu    sync.Mutex
	pages map[string]map[string]bool
}

func newNullNumbers() *nullNumbers {
	return &nullNumbers{pages: make(map[string]map[string]bool)}
}

type rawPage struct {
	ID         string                 `json:"id"`
	Properties map[string]rawProperty `json:"properties"`
	Results    []rawPage              `json:"results"`
}

type rawProperty struct {
	Type    string          `json:"type"`
	Number  json.RawMessage `json:"number"`
	Formula *rawNumeric     `json:"formula"`
	Rollup  *rawNumeric     `json:"rollup"`
}

type rawNumeric struct {
	Type   string          `json:"type"`
	Number json.RawMessage `json:"number"`
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func (p rawProperty) nullNumber() bool {
	switch p.Type {
	case "number":
		return isNull(p.Number)
	case "formula":
		return p.Formula != nil && p.Formula.Type == "number" && isNull(p.Formula.Number)
	case "rollup":
		return p.Rollup != nil && p.Rollup.Type == "number" && isNull(p.Rollup.Number)
	}
	return false
}

// scan records the null numbers of a page or a list of pages. Bodies that
// are not pages are ignored.
func (n *nullNumbers) scan(body []byte) {
	var page rawPage
	if err := json.Unmarshal(body, &page); err != nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.record(page)
	for _, p := range page.Results {
		n.record(p)
	}
}

func (n *nullNumbers) record(p rawPage) {
	if p.ID == "" {
		return
	}
	for name, prop := range p.Properties {
		if !prop.nullNumber() {
			continue
		}
		if n.pages[p.ID] == nil {
			n.pages[p.ID] = make(map[string]bool)
		}
		n.pages[p.ID][name] = true
	}
}

// apply resets the recorded null numbers of pageID in props and forgets them.
func (n *nullNumbers) apply(pageID string, props map[string]domain.FieldValue) {
	if n == nil {
		return
	}
	n.mu.Lock()
	names := n.pages[pageID]
	delete(n.pages, pageID)
	n.mu.Unlock()

	for name := range names {
		switch v := props[name].(type) {
		case domain.NumberValue:
			v.Number = nil
			props[name] = v
		case domain.FormulaValue:
			v.Number = nil
			props[name] = v
		case domain.RollupValue:
			v.Number = nil
			props[name] = v
		}
	}
}

// nullNumberTransport feeds successful JSON responses to nullNumbers before
// notionapi decodes them.
type nullNumberTransport struct {
	base  http.RoundTripper
	nulls *nullNumbers
}

func (t *nullNumberTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode/100 != 2 || resp.Body == nil {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	t.nulls.scan(body)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
