// Package notion reads carrier records from Notion databases.
//
// It provides the two driven ports the sync pipeline reads from:
//
//   - Repository: queries database rows and retrieves database schemas
//     ([driven.ContentRepository])
//   - Converter: renders a page's block tree as markdown
//     ([driven.ContentConverter])
//
// Both share a Client, which wraps the jomei/notionapi client with an
// HTTP transport that throttles requests to Notion's documented average of
// three requests per second. Retries on 429 responses are delegated to
// notionapi.
//
// # Property Conversion
//
// Page properties are converted into [domain.FieldValue] variants. Property
// types the domain does not model become [domain.UnknownValue] and render
// as empty cells.
//
// # Filters
//
// Domain filters map onto Notion filter conditions by kind: select, status
// and checkbox use "equals"; multi_select, relation and rich_text use
// "contains". Conjunctions become "and" compound filters.
package notion
