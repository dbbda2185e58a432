// Package rules provides the standard BBCode vocabulary as transducer rules.
package rules

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/athapong/bbslate/pkg/bbcode"
	"github.com/athapong/bbslate/pkg/slate"
	"github.com/athapong/bbslate/pkg/transducer"
)

// Block types
const (
	TypeParagraph    = "paragraph"
	TypeQuote        = "quote"
	TypeCode         = "code"
	TypeCenter       = "center"
	TypeBulletedList = "bulleted-list"
	TypeNumberedList = "numbered-list"
	TypeListItem     = "list-item"
	TypeDivider      = "divider"
)

// Inline types
const (
	TypeLink  = "link"
	TypeImage = "image"
)

// Mark types
const (
	MarkBold          = "bold"
	MarkItalic        = "italic"
	MarkUnderline     = "underline"
	MarkStrikethrough = "strikethrough"
	MarkColor         = "color"
	MarkSize          = "size"
	MarkSuperscript   = "superscript"
	MarkSubscript     = "subscript"
)

// Standard returns the rules for every tag listed by Tags
func Standard() []transducer.Rule {
	return []transducer.Rule{
		Paragraph(),
		Quote(),
		Code(),
		Center(),
		List(),
		Divider(),
		Link(),
		Image(),
		Mark("b", MarkBold, ""),
		Mark("i", MarkItalic, ""),
		Mark("u", MarkUnderline, ""),
		Mark("s", MarkStrikethrough, ""),
		Mark("color", MarkColor, "color"),
		Mark("size", MarkSize, "size"),
		Mark("sup", MarkSuperscript, ""),
		Mark("sub", MarkSubscript, ""),
	}
}

// Tags returns the tag names the standard rules understand
func Tags() mapset.Set[string] {
	return mapset.NewSet(
		"p", "quote", "code", "center", "list", "*", "hr", "url", "img",
		"b", "i", "u", "s", "color", "size", "sup", "sub",
	)
}

// Mark maps [tag]...[/tag] to a mark. When attr is set, the tag's default
// value is kept in the mark data under that key, as in [color=red].
func Mark(tag, typ, attr string) transducer.Rule {
	return transducer.TagRule(tag, typ,
		closed(func(el *bbcode.Element, next transducer.Next) (transducer.Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return transducer.Result{}, err
			}
			return transducer.Matched(&slate.MarkNode{
				Type:  typ,
				Data:  valueData(el, attr),
				Nodes: fragments(nodes),
			}), nil
		}),
		func(obj slate.Object, children string) string {
			return wrap(tag, dataString(obj, attr), children)
		},
	)
}

// Paragraph maps [p] to a paragraph block
func Paragraph() transducer.Rule {
	return simpleBlock("p", TypeParagraph)
}

// Center maps [center] to a centered block
func Center() transducer.Rule {
	return simpleBlock("center", TypeCenter)
}

// Quote maps [quote] and [quote=author] to a quote block
func Quote() transducer.Rule {
	return transducer.TagRule("quote", TypeQuote,
		closed(func(el *bbcode.Element, next transducer.Next) (transducer.Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return transducer.Result{}, err
			}
			return transducer.Matched(slate.NewBlock(TypeQuote, valueData(el, "author"), nodes...)), nil
		}),
		func(obj slate.Object, children string) string {
			return wrap("quote", dataString(obj, "author"), children)
		},
	)
}

// Code maps [code] to a code block holding the raw content as a single
// text leaf. [code=go] keeps the language.
func Code() transducer.Rule {
	return transducer.TagRule("code", TypeCode,
		closed(func(el *bbcode.Element, _ transducer.Next) (transducer.Result, error) {
			return transducer.Matched(slate.NewBlock(TypeCode, valueData(el, "language"),
				slate.NewText(bbcode.Render(el.Content)),
			)), nil
		}),
		func(obj slate.Object, children string) string {
			return wrap("code", dataString(obj, "language"), children)
		},
	)
}

// Divider maps [hr] to a void divider block
func Divider() transducer.Rule {
	return transducer.TagRule("hr", TypeDivider,
		func(_ *bbcode.Element, _ transducer.Next) (transducer.Result, error) {
			return transducer.Matched(slate.NewBlock(TypeDivider, nil, slate.NewText(""))), nil
		},
		func(_ slate.Object, _ string) string {
			return "[hr]"
		},
	)
}

// Link maps [url=href]text[/url] and [url]href[/url] to a link inline
func Link() transducer.Rule {
	return transducer.TagRule("url", TypeLink,
		closed(func(el *bbcode.Element, next transducer.Next) (transducer.Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return transducer.Result{}, err
			}
			href := el.Value()
			if href == "" {
				href = slate.PlainText(nodes...)
			}
			return transducer.Matched(slate.NewInline(TypeLink, slate.Data{"href": href}, nodes...)), nil
		}),
		func(obj slate.Object, children string) string {
			href := dataString(obj, "href")
			if n, ok := obj.(slate.Node); ok && slate.PlainText(n) == href {
				return wrap("url", "", children)
			}
			return wrap("url", href, children)
		},
	)
}

// Image maps [img]src[/img] to a void image inline
func Image() transducer.Rule {
	return transducer.TagRule("img", TypeImage,
		closed(func(el *bbcode.Element, _ transducer.Next) (transducer.Result, error) {
			data := slate.Data{"src": bbcode.Render(el.Content)}
			if size := el.Value(); size != "" {
				data["size"] = size
			}
			return transducer.Matched(slate.NewInline(TypeImage, data, slate.NewText(""))), nil
		}),
		func(obj slate.Object, _ string) string {
			return wrap("img", dataString(obj, "size"), dataString(obj, "src"))
		},
	)
}

func simpleBlock(tag, typ string) transducer.Rule {
	return transducer.TagRule(tag, typ,
		closed(func(el *bbcode.Element, next transducer.Next) (transducer.Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return transducer.Result{}, err
			}
			return transducer.Matched(slate.NewBlock(typ, nil, nodes...)), nil
		}),
		func(_ slate.Object, children string) string {
			return wrap(tag, "", children)
		},
	)
}

// closed leaves elements the source never closed to the literal fallback
func closed(deserialize func(*bbcode.Element, transducer.Next) (transducer.Result, error)) func(*bbcode.Element, transducer.Next) (transducer.Result, error) {
	return func(el *bbcode.Element, next transducer.Next) (transducer.Result, error) {
		if !el.Closed {
			return transducer.Unhandled(), nil
		}
		return deserialize(el, next)
	}
}

func wrap(tag, value, children string) string {
	if value != "" {
		return fmt.Sprintf("[%s=%s]%s[/%s]", tag, value, children, tag)
	}
	return fmt.Sprintf("[%s]%s[/%s]", tag, children, tag)
}

func valueData(el *bbcode.Element, key string) slate.Data {
	data := slate.Data{}
	if key == "" {
		return data
	}
	if value := el.Value(); value != "" {
		data[key] = value
	}
	return data
}

func dataString(obj slate.Object, key string) string {
	if key == "" {
		return ""
	}
	value, ok := transducer.DataOf(obj)[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func fragments(nodes []slate.Node) []slate.Fragment {
	out := make([]slate.Fragment, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
