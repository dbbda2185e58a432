package transducer

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/bbslate/pkg/bbcode"
	"github.com/athapong/bbslate/pkg/metrics"
	"github.com/athapong/bbslate/pkg/slate"
)

// Deserializer converts BBCode markup into a Slate value
type Deserializer struct {
	rules       []Rule
	allowedTags mapset.Set[string]
	logger      logrus.FieldLogger
}

// NewDeserializer creates a deserializer over the given rule chain
func NewDeserializer(rules []Rule, allowedTags mapset.Set[string], logger logrus.FieldLogger) *Deserializer {
	if logger == nil {
		logger = newLogger()
	}
	return &Deserializer{
		rules:       rules,
		allowedTags: allowedTags,
		logger:      logger,
	}
}

// Deserialize tokenizes markup, runs it through the rule chain and keeps
// the top-level nodes selected by the type option.
func (d *Deserializer) Deserialize(markup string, opts ...DeserializeOption) (value *slate.Value, err error) {
	timer := time.Now()
	defer func() {
		metrics.ConversionDuration.WithLabelValues(metrics.DirectionDeserialize).Observe(time.Since(timer).Seconds())
		metrics.ObserveConversion(metrics.DirectionDeserialize, err)
	}()

	options := deserializeOptions{typ: TypeBlock}
	for _, opt := range opts {
		opt(&options)
	}

	tree, err := bbcode.Parse(markup, bbcode.Options{
		OnlyAllowTags:    d.allowedTags,
		EnableEscapeTags: true,
	})
	if err != nil {
		return nil, err
	}

	nodes, err := d.DeserializeNodes(Normalize(tree))
	if err != nil {
		return nil, err
	}

	return slate.NewValue(filterTopLevel(nodes, options.typ)...), nil
}

// DeserializeNodes runs already tokenized content through the rule chain
func (d *Deserializer) DeserializeNodes(content []bbcode.Node) ([]slate.Node, error) {
	nodes := make([]slate.Node, 0, len(content))
	for _, n := range content {
		res, err := d.deserializeNode(n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, res...)
	}
	return nodes, nil
}

func (d *Deserializer) next(content ...bbcode.Node) ([]slate.Node, error) {
	if len(content) == 0 {
		return nil, nil
	}
	return d.DeserializeNodes(content)
}

func (d *Deserializer) deserializeNode(n bbcode.Node) ([]slate.Node, error) {
	if isNilElement(n) {
		return nil, errors.Wrapf(ErrInvalidContinuation, "%#v", n)
	}

	for _, rule := range d.rules {
		if rule.Deserialize == nil {
			continue
		}

		res, err := rule.Deserialize(n, d.next)
		if err != nil {
			return nil, err
		}

		switch res.outcome {
		case unhandled:
			continue
		case suppressed:
			metrics.SuppressedElementsTotal.Inc()
			return nil, nil
		case passThrough:
			return d.next(contentOf(n)...)
		case matched:
			nodes, err := resolveFragments(res.fragments)
			if err != nil {
				return nil, errors.Wrapf(err, "rule %q", rule.Name)
			}
			return nodes, nil
		default:
			return nil, errors.Wrapf(ErrInvalidRuleResult, "rule %q returned %s", rule.Name, res)
		}
	}

	return d.deserializeLiterally(n)
}

// deserializeLiterally handles nodes no rule claimed. Tags are written back
// as text around their converted content.
func (d *Deserializer) deserializeLiterally(n bbcode.Node) ([]slate.Node, error) {
	el, ok := n.(*bbcode.Element)
	if !ok {
		return []slate.Node{slate.NewText(string(n.(bbcode.Text)))}, nil
	}

	d.logger.WithField("tag", el.Tag).Warnf("No deserializer found for %q. Deserializing literally", el.Tag)
	metrics.UnmatchedTagsTotal.Inc()

	content, err := d.next(el.Content...)
	if err != nil {
		return nil, err
	}

	nodes := make([]slate.Node, 0, len(content)+2)
	nodes = append(nodes, slate.NewText(el.OpenTag()))
	nodes = append(nodes, content...)
	if el.Closed {
		nodes = append(nodes, slate.NewText(el.CloseTag()))
	}
	return nodes, nil
}

// resolveFragments turns a rule's output into finished nodes, distributing
// marks and filling in structural defaults
func resolveFragments(fragments []slate.Fragment) ([]slate.Node, error) {
	nodes := make([]slate.Node, 0, len(fragments))
	for _, f := range fragments {
		switch f := f.(type) {
		case *slate.MarkNode:
			marked, err := ApplyMark(f)
			if err != nil {
				return nil, err
			}
			for _, n := range marked {
				nodes = append(nodes, withDefaults(n))
			}
		case slate.Node:
			if isNilNode(f) {
				return nil, errors.Wrap(ErrInvalidRuleResult, "nil node")
			}
			nodes = append(nodes, withDefaults(f))
		default:
			return nil, errors.Wrapf(ErrInvalidRuleResult, "unsupported fragment %T", f)
		}
	}
	return nodes, nil
}

// withDefaults makes sure data, nodes and marks are never nil
func withDefaults(n slate.Node) slate.Node {
	switch n := n.(type) {
	case *slate.Block:
		if n.Data != nil && n.Nodes != nil {
			return n
		}
		return slate.NewBlock(n.Type, n.Data, n.Nodes...)
	case *slate.Inline:
		if n.Data != nil && n.Nodes != nil {
			return n
		}
		return slate.NewInline(n.Type, n.Data, n.Nodes...)
	case *slate.Text:
		if n.Marks != nil {
			return n
		}
		return slate.NewText(n.Text)
	}
	return n
}

func filterTopLevel(nodes []slate.Node, typ string) []slate.Node {
	filtered := make([]slate.Node, 0, len(nodes))
	for _, n := range nodes {
		isBlock := n.Kind() == slate.KindBlock
		if isBlock == (typ == TypeBlock) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

func contentOf(n bbcode.Node) []bbcode.Node {
	if el, ok := n.(*bbcode.Element); ok {
		return el.Content
	}
	return nil
}

func isNilElement(n bbcode.Node) bool {
	if n == nil {
		return true
	}
	el, ok := n.(*bbcode.Element)
	return ok && el == nil
}
