package transducer

import (
	"github.com/athapong/bbslate/pkg/bbcode"
	"github.com/athapong/bbslate/pkg/slate"
)

// Next deserializes child content through the same rule chain. Calling it
// with no arguments returns nil.
type Next func(content ...bbcode.Node) ([]slate.Node, error)

// Rule is one entry of the rule chain. Either transform may be nil.
type Rule struct {
	// Name identifies the rule in errors and logs.
	Name string

	// Deserialize receives an *bbcode.Element or a bbcode.Text.
	Deserialize func(node bbcode.Node, next Next) (Result, error)

	// Serialize receives a *slate.Block, *slate.Inline, slate.Mark or
	// slate.String together with the rendered children, and reports
	// whether it handled the object.
	Serialize func(obj slate.Object, children string) (string, bool)
}

type outcome int

const (
	unhandled outcome = iota
	matched
	suppressed
	passThrough
)

// Result is what a deserialization rule decided about an element. The zero
// value is Unhandled.
type Result struct {
	outcome   outcome
	fragments []slate.Fragment
}

// Matched claims the element and yields the given fragments. Any
// *slate.MarkNode among them is distributed onto its text leaves.
func Matched(fragments ...slate.Fragment) Result {
	return Result{outcome: matched, fragments: fragments}
}

// Suppressed claims the element and drops it.
func Suppressed() Result {
	return Result{outcome: suppressed}
}

// Unhandled leaves the element to later rules.
func Unhandled() Result {
	return Result{}
}

// PassThrough claims the element and replaces it with its deserialized
// content, unwrapped.
func PassThrough() Result {
	return Result{outcome: passThrough}
}

// Handled reports whether a rule claimed the element
func (r Result) Handled() bool {
	return r.outcome != unhandled
}

func (r Result) String() string {
	switch r.outcome {
	case unhandled:
		return "unhandled"
	case matched:
		return "matched"
	case suppressed:
		return "suppressed"
	case passThrough:
		return "pass-through"
	default:
		return "unknown"
	}
}

// TagRule builds a rule whose transforms only see elements with the given
// tag and objects of the given type. Either function may be nil.
func TagRule(
	tag string,
	typ string,
	deserialize func(el *bbcode.Element, next Next) (Result, error),
	serialize func(obj slate.Object, children string) string,
) Rule {
	rule := Rule{Name: tag}
	if deserialize != nil {
		rule.Deserialize = func(node bbcode.Node, next Next) (Result, error) {
			el, ok := node.(*bbcode.Element)
			if !ok || el.Tag != tag {
				return Unhandled(), nil
			}
			return deserialize(el, next)
		}
	}
	if serialize != nil {
		rule.Serialize = func(obj slate.Object, children string) (string, bool) {
			if typ == "" || TypeOf(obj) != typ {
				return "", false
			}
			return serialize(obj, children), true
		}
	}
	return rule
}

// TypeOf returns the type of a block, inline or mark, and "" for anything
// else.
func TypeOf(obj slate.Object) string {
	switch o := obj.(type) {
	case *slate.Block:
		return o.Type
	case *slate.Inline:
		return o.Type
	case slate.Mark:
		return o.Type
	case *slate.MarkNode:
		return o.Type
	}
	return ""
}

// DataOf returns the data of a block, inline or mark
func DataOf(obj slate.Object) slate.Data {
	switch o := obj.(type) {
	case *slate.Block:
		return o.Data
	case *slate.Inline:
		return o.Data
	case slate.Mark:
		return o.Data
	case *slate.MarkNode:
		return o.Data
	}
	return nil
}
