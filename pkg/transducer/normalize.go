package transducer

import (
	"strings"

	"github.com/athapong/bbslate/pkg/bbcode"
)

// Normalize returns a copy of nodes in which every run of adjacent text
// entries, at every nesting level, is merged into one. The input is not
// modified.
func Normalize(nodes []bbcode.Node) []bbcode.Node {
	if nodes == nil {
		return nil
	}

	out := make([]bbcode.Node, 0, len(nodes))
	var run strings.Builder
	inRun := false

	flush := func() {
		if inRun {
			out = append(out, bbcode.Text(run.String()))
			run.Reset()
			inRun = false
		}
	}

	for _, n := range nodes {
		switch n := n.(type) {
		case bbcode.Text:
			run.WriteString(string(n))
			inRun = true
		case *bbcode.Element:
			flush()
			out = append(out, normalizeElement(n))
		default:
			flush()
			out = append(out, n)
		}
	}
	flush()

	return out
}

func normalizeElement(el *bbcode.Element) *bbcode.Element {
	if el == nil {
		return nil
	}
	clone := *el
	clone.Content = Normalize(el.Content)
	return &clone
}
