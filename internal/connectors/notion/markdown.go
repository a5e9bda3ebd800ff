package notion

import (
	"strconv"
	"strings"

	"github.com/jomei/notionapi"
)

// renderBlocks renders sibling blocks. Consecutive list items are joined by
// a single newline, everything else by a blank line.
func renderBlocks(nodes []blockNode) string {
	var b strings.Builder
	prevList := false
	number := 0

	for _, n := range nodes {
		if _, ok := n.block.(*notionapi.NumberedListItemBlock); ok {
			number++
		} else {
			number = 0
		}

		text := renderBlock(n, number)
		if text == "" {
			continue
		}

		list := isListItem(n.block)
		if b.Len() > 0 {
			if list && prevList {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(text)
		prevList = list
	}
	return b.String()
}

func isListItem(b notionapi.Block) bool {
	switch b.(type) {
	case *notionapi.BulletedListItemBlock, *notionapi.NumberedListItemBlock, *notionapi.ToDoBlock:
		return true
	}
	return false
}

// renderBlock renders one block and its children. number is the position
// of a numbered list item within its run.
func renderBlock(n blockNode, number int) string {
	switch b := n.block.(type) {
	case *notionapi.ParagraphBlock:
		return withChildren(inline(b.Paragraph.RichText), n.children)
	case *notionapi.Heading1Block:
		return heading("# ", b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return heading("## ", b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return heading("### ", b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return listItem("- ", inline(b.BulletedListItem.RichText), n.children)
	case *notionapi.NumberedListItemBlock:
		return listItem(strconv.Itoa(number)+". ", inline(b.NumberedListItem.RichText), n.children)
	case *notionapi.ToDoBlock:
		box := "- [ ] "
		if b.ToDo.Checked {
			box = "- [x] "
		}
		return listItem(box, inline(b.ToDo.RichText), n.children)
	case *notionapi.QuoteBlock:
		return quote(withChildren(inline(b.Quote.RichText), n.children))
	case *notionapi.CalloutBlock:
		return quote(withChildren(inline(b.Callout.RichText), n.children))
	case *notionapi.ToggleBlock:
		return withChildren(inline(b.Toggle.RichText), n.children)
	case *notionapi.CodeBlock:
		return "```" + b.Code.Language + "\n" + plainText(b.Code.RichText) + "\n```"
	case *notionapi.EquationBlock:
		return "$$\n" + b.Equation.Expression + "\n$$"
	case *notionapi.DividerBlock:
		return "---"
	case *notionapi.BookmarkBlock:
		return link(b.Bookmark.URL, b.Bookmark.URL)
	case *notionapi.ImageBlock:
		return image(b.Image)
	case *notionapi.TableBlock:
		return table(n.children)
	case *notionapi.ChildPageBlock:
		return "**" + b.ChildPage.Title + "**"
	}
	return renderBlocks(n.children)
}

func heading(prefix string, rt []notionapi.RichText) string {
	text := inline(rt)
	if text == "" {
		return ""
	}
	return prefix + text
}

func withChildren(text string, children []blockNode) string {
	nested := renderBlocks(children)
	switch {
	case nested == "":
		return text
	case text == "":
		return nested
	}
	return text + "\n\n" + nested
}

func listItem(marker, text string, children []blockNode) string {
	out := marker + text
	if nested := renderBlocks(children); nested != "" {
		out += "\n" + indent(nested, strings.Repeat(" ", len(marker)))
	}
	return out
}

func quote(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func link(text, url string) string {
	if url == "" {
		return text
	}
	return "[" + text + "](" + url + ")"
}

func image(img notionapi.Image) string {
	url := ""
	switch {
	case img.File != nil:
		url = img.File.URL
	case img.External != nil:
		url = img.External.URL
	}
	if url == "" {
		return ""
	}
	return "![" + plainText(img.Caption) + "](" + url + ")"
}

// table renders table rows, treating the first row as the header.
func table(rows []blockNode) string {
	var cells [][]string
	width := 0
	for _, r := range rows {
		row, ok := r.block.(*notionapi.TableRowBlock)
		if !ok {
			continue
		}
		line := make([]string, len(row.TableRow.Cells))
		for i, c := range row.TableRow.Cells {
			line[i] = strings.ReplaceAll(inline(c), "|", `\|`)
		}
		if len(line) > width {
			width = len(line)
		}
		cells = append(cells, line)
	}
	if len(cells) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(values []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			b.WriteString(" " + v + " |")
		}
		b.WriteString("\n")
	}
	writeRow(cells[0])
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range cells[1:] {
		writeRow(r)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// inline renders rich text with markdown emphasis and links.
func inline(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, t := range rt {
		s := t.PlainText
		if s == "" {
			continue
		}
		if a := t.Annotations; a != nil {
			if a.Code {
				s = "`" + s + "`"
			}
			if a.Bold {
				s = "**" + s + "**"
			}
			if a.Italic {
				s = "_" + s + "_"
			}
			if a.Strikethrough {
				s = "~~" + s + "~~"
			}
		}
		if t.Href != "" {
			s = link(s, t.Href)
		}
		b.WriteString(s)
	}
	return b.String()
}
