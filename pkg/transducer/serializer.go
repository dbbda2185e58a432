package transducer

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/athapong/bbslate/pkg/metrics"
	"github.com/athapong/bbslate/pkg/slate"
)

// Serializer converts a Slate value into BBCode markup
type Serializer struct {
	rules []Rule
}

// NewSerializer creates a serializer over the given rule chain
func NewSerializer(rules []Rule) *Serializer {
	return &Serializer{rules: rules}
}

// Serialize renders every top-level node, joins them with the separator
// (a newline by default) and trims the result.
func (s *Serializer) Serialize(value *slate.Value, opts ...SerializeOption) (out string, err error) {
	timer := time.Now()
	defer func() {
		metrics.ConversionDuration.WithLabelValues(metrics.DirectionSerialize).Observe(time.Since(timer).Seconds())
		metrics.ObserveConversion(metrics.DirectionSerialize, err)
	}()

	options := serializeOptions{separator: "\n"}
	for _, opt := range opts {
		opt(&options)
	}

	if value == nil || value.Document == nil {
		return "", ErrNilValue
	}

	elements := make([]string, 0, len(value.Document.Nodes))
	for _, n := range value.Document.Nodes {
		rendered, err := s.SerializeNode(n)
		if err != nil {
			return "", err
		}
		elements = append(elements, rendered)
	}

	return strings.TrimSpace(strings.Join(elements, options.separator)), nil
}

// SerializeNode renders a single node and everything below it
func (s *Serializer) SerializeNode(n slate.Node) (string, error) {
	if isNilNode(n) {
		return "", errors.Wrap(ErrUnmatchedNode, "nil node")
	}

	switch n := n.(type) {
	case *slate.Text:
		return s.serializeText(n)
	case *slate.Block:
		return s.serializeElement(n, n.Type, n.Nodes)
	case *slate.Inline:
		return s.serializeElement(n, n.Type, n.Nodes)
	default:
		return "", errors.Wrapf(ErrUnmatchedNode, "unsupported node %T", n)
	}
}

func (s *Serializer) serializeText(t *slate.Text) (string, error) {
	text, ok := s.dispatch(slate.String{Text: t.Text}, t.Text)
	if !ok {
		text = t.Text
	}

	for _, mark := range t.Marks {
		rendered, ok := s.dispatch(mark, text)
		if !ok {
			return "", errors.Wrapf(ErrUnmatchedMark, "mark type %q", mark.Type)
		}
		text = rendered
	}
	return text, nil
}

func (s *Serializer) serializeElement(n slate.Node, typ string, nodes []slate.Node) (string, error) {
	var children strings.Builder
	for _, child := range nodes {
		rendered, err := s.SerializeNode(child)
		if err != nil {
			return "", err
		}
		children.WriteString(rendered)
	}

	out, ok := s.dispatch(n, children.String())
	if !ok {
		return "", errors.Wrapf(ErrUnmatchedNode, "%s type %q", n.Kind(), typ)
	}
	return out, nil
}

// dispatch gives obj to each rule in order; the first one to handle it wins
func (s *Serializer) dispatch(obj slate.Object, children string) (string, bool) {
	for _, rule := range s.rules {
		if rule.Serialize == nil {
			continue
		}
		if out, ok := rule.Serialize(obj, children); ok {
			return out, true
		}
	}
	return "", false
}
