// Package htmlimport builds Slate values in the standard rule vocabulary
// from HTML, so pasted rich text can be stored or serialized as BBCode.
package htmlimport

import (
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/athapong/bbslate/pkg/rules"
	"github.com/athapong/bbslate/pkg/slate"
)

var (
	whitespace = regexp.MustCompile(`\s+`)

	markTags = map[string]string{
		"b":      rules.MarkBold,
		"strong": rules.MarkBold,
		"i":      rules.MarkItalic,
		"em":     rules.MarkItalic,
		"u":      rules.MarkUnderline,
		"ins":    rules.MarkUnderline,
		"s":      rules.MarkStrikethrough,
		"strike": rules.MarkStrikethrough,
		"del":    rules.MarkStrikethrough,
		"sup":    rules.MarkSuperscript,
		"sub":    rules.MarkSubscript,
	}
)

// Import parses an HTML document or fragment
func Import(r io.Reader) (*slate.Value, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}
	return slate.NewValue(blocks(doc.Find("body"))...), nil
}

// ImportString parses HTML held in a string
func ImportString(html string) (*slate.Value, error) {
	return Import(strings.NewReader(html))
}

// blocks converts the children of sel. Runs of inline content between
// block elements become paragraphs.
func blocks(sel *goquery.Selection) []slate.Node {
	out := []slate.Node{}
	var run []slate.Node

	flush := func() {
		if p := paragraph(run); p != nil {
			out = append(out, p)
		}
		run = nil
	}

	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "p":
			flush()
			if p := paragraph(inlines(c, nil)); p != nil {
				out = append(out, p)
			}
		case "div", "section", "article", "main", "header", "footer":
			flush()
			out = append(out, blocks(c)...)
		case "h1", "h2", "h3", "h4", "h5", "h6":
			flush()
			if p := paragraph(inlines(c, []slate.Mark{slate.NewMark(rules.MarkBold, nil)})); p != nil {
				out = append(out, p)
			}
		case "center":
			flush()
			out = append(out, slate.NewBlock(rules.TypeCenter, nil, trim(inlines(c, nil))...))
		case "blockquote":
			flush()
			data := slate.Data{}
			if cite, ok := c.Attr("cite"); ok && cite != "" {
				data["author"] = cite
			}
			out = append(out, slate.NewBlock(rules.TypeQuote, data, unwrapSingle(blocks(c))...))
		case "pre":
			flush()
			out = append(out, code(c))
		case "ul", "ol":
			flush()
			out = append(out, list(c))
		case "hr":
			flush()
			out = append(out, slate.NewBlock(rules.TypeDivider, nil, slate.NewText("")))
		case "script", "style", "head", "#comment":
		default:
			run = append(run, inline(c, nil)...)
		}
	})
	flush()

	return out
}

func inlines(sel *goquery.Selection, marks []slate.Mark) []slate.Node {
	var out []slate.Node
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		out = append(out, inline(c, marks)...)
	})
	return mergeText(out)
}

func inline(c *goquery.Selection, marks []slate.Mark) []slate.Node {
	name := goquery.NodeName(c)
	if typ, ok := markTags[name]; ok {
		return inlines(c, withMark(marks, slate.NewMark(typ, nil)))
	}

	switch name {
	case "#text":
		return []slate.Node{slate.NewText(whitespace.ReplaceAllString(c.Text(), " "), marks...)}
	case "br":
		return []slate.Node{slate.NewText("\n", marks...)}
	case "a":
		href, _ := c.Attr("href")
		return []slate.Node{slate.NewInline(rules.TypeLink, slate.Data{"href": href}, inlines(c, marks)...)}
	case "img":
		src, _ := c.Attr("src")
		return []slate.Node{slate.NewInline(rules.TypeImage, slate.Data{"src": src}, slate.NewText(""))}
	case "font", "span":
		if color := colorOf(c); color != "" {
			return inlines(c, withMark(marks, slate.NewMark(rules.MarkColor, slate.Data{"color": color})))
		}
		return inlines(c, marks)
	case "script", "style", "#comment":
		return nil
	}
	return inlines(c, marks)
}

func list(sel *goquery.Selection) *slate.Block {
	typ, data := rules.TypeBulletedList, slate.Data{}
	if goquery.NodeName(sel) == "ol" {
		typ = rules.TypeNumberedList
		data["style"] = "1"
		if t, ok := sel.Attr("type"); ok && t != "" {
			data["style"] = t
		}
	}

	items := []slate.Node{}
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		var nodes, run []slate.Node
		li.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "ul", "ol":
				nodes = append(nodes, trim(mergeText(run))...)
				run = nil
				nodes = append(nodes, list(c))
			default:
				run = append(run, inline(c, nil)...)
			}
		})
		nodes = append(nodes, trim(mergeText(run))...)
		items = append(items, slate.NewBlock(rules.TypeListItem, nil, nodes...))
	})

	return slate.NewBlock(typ, data, items...)
}

func code(pre *goquery.Selection) *slate.Block {
	data := slate.Data{}
	for _, sel := range []*goquery.Selection{pre, pre.ChildrenFiltered("code").First()} {
		class, _ := sel.Attr("class")
		for _, c := range strings.Fields(class) {
			if lang := strings.TrimPrefix(c, "language-"); lang != c && lang != "" {
				data["language"] = lang
			}
		}
	}
	return slate.NewBlock(rules.TypeCode, data, slate.NewText(strings.Trim(pre.Text(), "\n")))
}

// paragraph wraps inline content, or returns nil when it is blank
func paragraph(nodes []slate.Node) *slate.Block {
	nodes = trim(mergeText(nodes))
	if strings.TrimSpace(slate.PlainText(nodes...)) == "" && !hasInline(nodes) {
		return nil
	}
	return slate.NewBlock(rules.TypeParagraph, nil, nodes...)
}

// unwrapSingle keeps a lone paragraph's content inline, as [quote]text[/quote]
// deserializes
func unwrapSingle(nodes []slate.Node) []slate.Node {
	if len(nodes) == 1 {
		if p, ok := nodes[0].(*slate.Block); ok && p.Type == rules.TypeParagraph {
			return p.Nodes
		}
	}
	return nodes
}

func colorOf(c *goquery.Selection) string {
	if color, ok := c.Attr("color"); ok {
		return strings.TrimSpace(color)
	}
	style, _ := c.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), "color") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func withMark(marks []slate.Mark, mark slate.Mark) []slate.Mark {
	out := make([]slate.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}

// mergeText joins adjacent text leaves that carry the same marks
func mergeText(nodes []slate.Node) []slate.Node {
	out := make([]slate.Node, 0, len(nodes))
	for _, n := range nodes {
		t, ok := n.(*slate.Text)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*slate.Text); ok && reflect.DeepEqual(prev.Marks, t.Marks) {
				out[len(out)-1] = slate.NewText(prev.Text+t.Text, prev.Marks...)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// trim strips leading and trailing whitespace from the outer text leaves
func trim(nodes []slate.Node) []slate.Node {
	if len(nodes) == 0 {
		return nodes
	}
	out := append([]slate.Node(nil), nodes...)

	if t, ok := out[0].(*slate.Text); ok {
		out[0] = slate.NewText(strings.TrimLeft(t.Text, " \t\n"), t.Marks...)
	}
	last := len(out) - 1
	if t, ok := out[last].(*slate.Text); ok {
		out[last] = slate.NewText(strings.TrimRight(t.Text, " \t\n"), t.Marks...)
	}

	filtered := out[:0]
	for _, n := range out {
		if t, ok := n.(*slate.Text); ok && t.Text == "" {
			continue
		}
		filtered = append(filtered, n)
	}
	return filtered
}

func hasInline(nodes []slate.Node) bool {
	for _, n := range nodes {
		if n.Kind() == slate.KindInline {
			return true
		}
	}
	return false
}
