// Package markdown renders Slate values built with the standard rules as
// Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/athapong/bbslate/pkg/rules"
	"github.com/athapong/bbslate/pkg/slate"
)

// Render converts a Slate value to Markdown
func Render(value *slate.Value) string {
	if value == nil || value.Document == nil {
		return ""
	}

	var result strings.Builder
	convertChildren(value.Document.Nodes, &result, 0)

	out := strings.TrimSpace(result.String())
	if out == "" {
		return ""
	}
	return out + "\n"
}

func convertNode(node slate.Node, result *strings.Builder, depth int) {
	switch n := node.(type) {
	case *slate.Text:
		convertText(n, result)
	case *slate.Inline:
		convertInline(n, result, depth)
	case *slate.Block:
		convertBlock(n, result, depth)
	}
}

func convertBlock(node *slate.Block, result *strings.Builder, depth int) {
	switch node.Type {
	case rules.TypeParagraph, rules.TypeCenter:
		convertParagraph(node, result, depth)
	case rules.TypeBulletedList:
		convertBulletList(node, result, depth)
	case rules.TypeNumberedList:
		convertOrderedList(node, result, depth)
	case rules.TypeListItem:
		convertListItem(node, result, depth)
	case rules.TypeCode:
		convertCodeBlock(node, result)
	case rules.TypeQuote:
		convertBlockquote(node, result, depth)
	case rules.TypeDivider:
		result.WriteString("---\n\n")
	default:
		convertChildren(node.Nodes, result, depth)
	}
}

func convertInline(node *slate.Inline, result *strings.Builder, depth int) {
	switch node.Type {
	case rules.TypeLink:
		var text strings.Builder
		convertChildren(node.Nodes, &text, depth)
		fmt.Fprintf(result, "[%s](%s)", text.String(), dataString(node.Data, "href"))
	case rules.TypeImage:
		fmt.Fprintf(result, "![](%s)", dataString(node.Data, "src"))
	default:
		convertChildren(node.Nodes, result, depth)
	}
}

func convertParagraph(node *slate.Block, result *strings.Builder, depth int) {
	if depth > 0 {
		result.WriteString(strings.Repeat("  ", depth))
	}
	convertChildren(node.Nodes, result, depth)
	result.WriteString("\n\n")
}

func convertText(node *slate.Text, result *strings.Builder) {
	text := node.Text
	if text == "" {
		return
	}
	for _, mark := range node.Marks {
		switch mark.Type {
		case rules.MarkBold:
			text = "**" + text + "**"
		case rules.MarkItalic:
			text = "_" + text + "_"
		case rules.MarkStrikethrough:
			text = "~~" + text + "~~"
		case rules.MarkUnderline:
			text = "<u>" + text + "</u>"
		case rules.MarkSuperscript:
			text = "<sup>" + text + "</sup>"
		case rules.MarkSubscript:
			text = "<sub>" + text + "</sub>"
		}
	}
	result.WriteString(text)
}

func convertBulletList(node *slate.Block, result *strings.Builder, depth int) {
	for i, child := range node.Nodes {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(strings.Repeat("  ", depth) + "* ")
		convertListItem(child, result, depth+1)
	}
	if depth == 0 {
		result.WriteString("\n\n")
	}
}

func convertOrderedList(node *slate.Block, result *strings.Builder, depth int) {
	for i, child := range node.Nodes {
		if i > 0 {
			result.WriteString("\n")
		}
		fmt.Fprintf(result, "%s%d. ", strings.Repeat("  ", depth), i+1)
		convertListItem(child, result, depth+1)
	}
	if depth == 0 {
		result.WriteString("\n\n")
	}
}

// convertListItem writes the item's text on the bullet line and nested
// lists on the lines below it. Nested lists are indented one level deeper
// than the item.
func convertListItem(node slate.Node, result *strings.Builder, depth int) {
	for _, child := range slate.Children(node) {
		if block, ok := child.(*slate.Block); ok && isList(block) {
			result.WriteString("\n")
			convertBlock(block, result, depth)
			continue
		}
		convertNode(child, result, depth)
	}
}

func convertCodeBlock(node *slate.Block, result *strings.Builder) {
	result.WriteString("```" + dataString(node.Data, "language") + "\n")
	result.WriteString(slate.PlainText(node.Nodes...))
	result.WriteString("\n```\n\n")
}

func convertBlockquote(node *slate.Block, result *strings.Builder, depth int) {
	var body strings.Builder
	convertChildren(node.Nodes, &body, depth)

	lines := strings.Split(strings.TrimSpace(body.String()), "\n")
	for _, line := range lines {
		result.WriteString(strings.TrimRight("> "+line, " ") + "\n")
	}
	if author := dataString(node.Data, "author"); author != "" {
		result.WriteString(">\n> -- " + author + "\n")
	}
	result.WriteString("\n")
}

func convertChildren(nodes []slate.Node, result *strings.Builder, depth int) {
	for _, child := range nodes {
		convertNode(child, result, depth)
	}
}

func isList(node *slate.Block) bool {
	return node.Type == rules.TypeBulletedList || node.Type == rules.TypeNumberedList
}

func dataString(data slate.Data, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
