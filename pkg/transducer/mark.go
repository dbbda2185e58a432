package transducer

import (
	"github.com/pkg/errors"

	"github.com/athapong/bbslate/pkg/slate"
)

// ApplyMark distributes a transient mark onto every text leaf in its scope
// and returns the resulting nodes. Nested marks are resolved first, so an
// inner mark precedes an outer one in a leaf's mark list. Nodes are copied,
// never modified in place.
func ApplyMark(mark *slate.MarkNode) ([]slate.Node, error) {
	if mark == nil {
		return nil, errors.Wrap(ErrInvalidRuleResult, "nil mark")
	}

	decoration := slate.NewMark(mark.Type, mark.Data)
	nodes := make([]slate.Node, 0, len(mark.Nodes))

	for _, child := range mark.Nodes {
		switch c := child.(type) {
		case *slate.MarkNode:
			inner, err := ApplyMark(c)
			if err != nil {
				return nil, err
			}
			for _, n := range inner {
				nodes = append(nodes, withMark(n, decoration))
			}
		case slate.Node:
			if isNilNode(c) {
				return nil, errors.Wrapf(ErrInvalidRuleResult, "nil node inside mark %q", mark.Type)
			}
			nodes = append(nodes, withMark(c, decoration))
		default:
			return nil, errors.Wrapf(ErrInvalidRuleResult, "unsupported fragment %T inside mark %q", child, mark.Type)
		}
	}

	return nodes, nil
}

func withMark(n slate.Node, mark slate.Mark) slate.Node {
	switch n := n.(type) {
	case *slate.Text:
		marks := make([]slate.Mark, 0, len(n.Marks)+1)
		marks = append(marks, n.Marks...)
		return &slate.Text{Text: n.Text, Marks: append(marks, mark)}
	case *slate.Block:
		return &slate.Block{Type: n.Type, Data: n.Data, Nodes: withMarkAll(n.Nodes, mark)}
	case *slate.Inline:
		return &slate.Inline{Type: n.Type, Data: n.Data, Nodes: withMarkAll(n.Nodes, mark)}
	}
	return n
}

func withMarkAll(nodes []slate.Node, mark slate.Mark) []slate.Node {
	if nodes == nil {
		return nil
	}
	out := make([]slate.Node, len(nodes))
	for i, n := range nodes {
		out[i] = withMark(n, mark)
	}
	return out
}

func isNilNode(n slate.Node) bool {
	switch n := n.(type) {
	case *slate.Block:
		return n == nil
	case *slate.Inline:
		return n == nil
	case *slate.Text:
		return n == nil
	}
	return n == nil
}
