package transducer

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/athapong/bbslate/pkg/bbcode"
	"github.com/athapong/bbslate/pkg/slate"
)

func blockRule(tag, typ string) Rule {
	return TagRule(tag, typ,
		func(el *bbcode.Element, next Next) (Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return Result{}, err
			}
			return Matched(&slate.Block{Type: typ, Nodes: nodes}), nil
		},
		func(_ slate.Object, children string) string {
			return fmt.Sprintf("[%s]%s[/%s]", tag, children, tag)
		},
	)
}

func inlineRule(tag, typ string) Rule {
	return TagRule(tag, typ,
		func(el *bbcode.Element, next Next) (Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return Result{}, err
			}
			return Matched(&slate.Inline{Type: typ, Nodes: nodes}), nil
		},
		func(_ slate.Object, children string) string {
			return fmt.Sprintf("[%s]%s[/%s]", tag, children, tag)
		},
	)
}

func markRule(tag, typ string) Rule {
	return TagRule(tag, typ,
		func(el *bbcode.Element, next Next) (Result, error) {
			nodes, err := next(el.Content...)
			if err != nil {
				return Result{}, err
			}
			fragments := make([]slate.Fragment, len(nodes))
			for i, n := range nodes {
				fragments[i] = n
			}
			return Matched(&slate.MarkNode{Type: typ, Nodes: fragments}), nil
		},
		func(_ slate.Object, children string) string {
			return fmt.Sprintf("[%s]%s[/%s]", tag, children, tag)
		},
	)
}

func testRules() []Rule {
	return []Rule{
		blockRule("p", "paragraph"),
		inlineRule("span", "span"),
		markRule("b", "bold"),
		markRule("i", "italic"),
		{
			Name: "drop",
			Deserialize: func(node bbcode.Node, _ Next) (Result, error) {
				if el, ok := node.(*bbcode.Element); ok && el.Tag == "drop" {
					return Suppressed(), nil
				}
				return Unhandled(), nil
			},
		},
		{
			Name: "unwrap",
			Deserialize: func(node bbcode.Node, _ Next) (Result, error) {
				if el, ok := node.(*bbcode.Element); ok && el.Tag == "unwrap" {
					return PassThrough(), nil
				}
				return Unhandled(), nil
			},
		},
	}
}

func newNullLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func allowed(tags ...string) mapset.Set[string] {
	return mapset.NewSet(tags...)
}

func newTestTransducer(rules ...Rule) (*Transducer, *test.Hook) {
	logger, hook := newNullLogger()
	if rules == nil {
		rules = testRules()
	}
	return New(rules, nil, WithLogger(logger)), hook
}
