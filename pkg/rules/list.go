package rules

import (
	"strings"

	"github.com/athapong/bbslate/pkg/bbcode"
	"github.com/athapong/bbslate/pkg/slate"
	"github.com/athapong/bbslate/pkg/transducer"
)

// List maps [list] and [list=1] to bulleted and numbered lists. Items start
// with [*] and are either left open until the next item or closed with [/*].
func List() transducer.Rule {
	return transducer.Rule{
		Name:        "list",
		Deserialize: deserializeList,
		Serialize:   serializeList,
	}
}

func deserializeList(node bbcode.Node, next transducer.Next) (transducer.Result, error) {
	el, ok := node.(*bbcode.Element)
	if !ok {
		return transducer.Unhandled(), nil
	}

	switch el.Tag {
	case "*":
		// a closed item outside a list; a lone [*] stays literal
		if !el.Closed {
			return transducer.Unhandled(), nil
		}
		nodes, err := next(el.Content...)
		if err != nil {
			return transducer.Result{}, err
		}
		return transducer.Matched(slate.NewBlock(TypeListItem, nil, nodes...)), nil
	case "list":
		if !el.Closed {
			return transducer.Unhandled(), nil
		}
		typ, data := TypeBulletedList, slate.Data{}
		if style := el.Value(); style != "" {
			typ = TypeNumberedList
			data["style"] = style
		}
		items, err := listItems(el.Content, next)
		if err != nil {
			return transducer.Result{}, err
		}
		return transducer.Matched(slate.NewBlock(typ, data, items...)), nil
	}
	return transducer.Unhandled(), nil
}

func listItems(content []bbcode.Node, next transducer.Next) ([]slate.Node, error) {
	items := []slate.Node{}
	var pending []bbcode.Node
	open := false

	flush := func() error {
		if !open {
			return nil
		}
		nodes, err := next(trimTrailingSpace(pending)...)
		if err != nil {
			return err
		}
		items = append(items, slate.NewBlock(TypeListItem, nil, nodes...))
		pending = nil
		open = false
		return nil
	}

	for _, c := range content {
		if el, ok := c.(*bbcode.Element); ok && el.Tag == "*" {
			if err := flush(); err != nil {
				return nil, err
			}
			if el.Closed {
				nodes, err := next(el.Content...)
				if err != nil {
					return nil, err
				}
				items = append(items, slate.NewBlock(TypeListItem, nil, nodes...))
				continue
			}
			// an open item runs until the next one; whatever it holds starts it
			open = true
			pending = append(pending, el.Content...)
			continue
		}

		if !open {
			if text, ok := c.(bbcode.Text); ok && strings.TrimSpace(string(text)) == "" {
				continue
			}
			open = true
		}
		pending = append(pending, c)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return items, nil
}

// trimTrailingSpace drops the line break that usually follows an open item
func trimTrailingSpace(nodes []bbcode.Node) []bbcode.Node {
	if len(nodes) == 0 {
		return nodes
	}
	last, ok := nodes[len(nodes)-1].(bbcode.Text)
	if !ok {
		return nodes
	}

	trimmed := strings.TrimRight(string(last), " \t\r\n")
	out := append([]bbcode.Node(nil), nodes[:len(nodes)-1]...)
	if trimmed != "" {
		out = append(out, bbcode.Text(trimmed))
	}
	return out
}

func serializeList(obj slate.Object, children string) (string, bool) {
	switch transducer.TypeOf(obj) {
	case TypeBulletedList:
		return wrap("list", "", children), true
	case TypeNumberedList:
		style := dataString(obj, "style")
		if style == "" {
			style = "1"
		}
		return wrap("list", style, children), true
	case TypeListItem:
		return "[*]" + children, true
	}
	return "", false
}
