package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.ContentConverter = (*Converter)(nil)

// DefaultMaxDepth bounds how deep nested blocks are fetched.
const DefaultMaxDepth = 8

// blockNode is a block with its fetched children.
type blockNode struct {
	block    notionapi.Block
	children []blockNode
}

// Converter renders the block tree of a page as markdown.
type Converter struct {
	client   *Client
	maxDepth int
}

// NewConverter creates a converter over client.
func NewConverter(client *Client) *Converter {
	return &Converter{client: client, maxDepth: DefaultMaxDepth}
}

// PageToMarkdown fetches every block of pageID and renders it.
func (c *Converter) PageToMarkdown(ctx context.Context, pageID string) (string, error) {
	nodes, err := c.fetch(ctx, pageID, 0)
	if err != nil {
		return "", err
	}
	return renderBlocks(nodes), nil
}

// fetch lists the children of blockID and, recursively, their children.
// Child pages and databases are separate documents and are not descended into.
func (c *Converter) fetch(ctx context.Context, blockID string, depth int) ([]blockNode, error) {
	var nodes []blockNode
	cursor := ""
	for {
		resp, err := c.client.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
			StartCursor: notionapi.Cursor(cursor),
			PageSize:    MaxPageSize,
		})
		if err != nil {
			return nil, wrapError(err, "list children of "+blockID)
		}

		for _, b := range resp.Results {
			node := blockNode{block: b}
			if b.GetHasChildren() && descends(b) && depth+1 < c.maxDepth {
				children, err := c.fetch(ctx, string(b.GetID()), depth+1)
				if err != nil {
					return nil, err
				}
				node.children = children
			}
			nodes = append(nodes, node)
		}

		next := string(resp.NextCursor)
		if !resp.HasMore {
			return nodes, nil
		}
		if next == "" || next == cursor {
			return nil, fmt.Errorf("notion: list children of %s: cursor did not advance", blockID)
		}
		cursor = next
	}
}

func descends(b notionapi.Block) bool {
	switch b.(type) {
	case *notionapi.ChildPageBlock, *notionapi.ChildDatabaseBlock:
		return false
	}
	return true
}
