package bbcode

import "strings"

// Render writes nodes back as markup. Text is written as is, so escapes
// resolved by Parse are not restored.
func Render(nodes []Node) string {
	var b strings.Builder
	render(&b, nodes)
	return b.String()
}

func render(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(string(n))
		case *Element:
			if n == nil {
				continue
			}
			b.WriteString(n.OpenTag())
			render(b, n.Content)
			if n.Closed {
				b.WriteString(n.CloseTag())
			}
		}
	}
}
