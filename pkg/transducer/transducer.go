// Package transducer converts between BBCode markup and Slate documents.
//
// Conversion is driven by an ordered chain of rules supplied by the caller.
// The first rule to handle an element or node wins. A built-in rule that
// escapes and unescapes literal text always runs before the caller's rules.
package transducer

import (
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/athapong/bbslate/pkg/bbcode"
	"github.com/athapong/bbslate/pkg/slate"
)

// TypeBlock is the default deserialization type: only top-level blocks are
// kept. Any other type keeps only the top-level nodes that are not blocks.
const TypeBlock = "block"

var escaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// textRule is the built-in rule for literal text. It turns text tokens into
// text leaves and escapes backslashes and brackets on the way out.
var textRule = Rule{
	Name: "text",
	Deserialize: func(node bbcode.Node, _ Next) (Result, error) {
		text, ok := node.(bbcode.Text)
		if !ok {
			return Unhandled(), nil
		}
		return Matched(slate.NewText(string(text))), nil
	},
	Serialize: func(obj slate.Object, children string) (string, bool) {
		if obj.Kind() != slate.KindString {
			return "", false
		}
		return Escape(children), true
	},
}

// Escape backslash-escapes backslashes and square brackets
func Escape(text string) string {
	return escaper.Replace(text)
}

// Transducer serializes and deserializes through one rule chain
type Transducer struct {
	rules        []Rule
	serializer   *Serializer
	deserializer *Deserializer
}

// Option configures a Transducer
type Option func(*config)

type config struct {
	logger logrus.FieldLogger
}

// WithLogger sets where diagnostic notices are written
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// DeserializeOption configures a single Deserialize call
type DeserializeOption func(*deserializeOptions)

type deserializeOptions struct {
	typ string
}

// WithType selects which top-level nodes are kept
func WithType(typ string) DeserializeOption {
	return func(o *deserializeOptions) {
		o.typ = typ
	}
}

// SerializeOption configures a single Serialize call
type SerializeOption func(*serializeOptions)

type serializeOptions struct {
	separator string
}

// WithSeparator sets the string placed between top-level nodes
func WithSeparator(sep string) SerializeOption {
	return func(o *serializeOptions) {
		o.separator = sep
	}
}

// New creates a transducer. rules run after the built-in text rule in the
// given order.
// allowedTags limits which tags the tokenizer recognises; nil allows all.
func New(rules []Rule, allowedTags mapset.Set[string], opts ...Option) *Transducer {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = newLogger()
	}

	chain := make([]Rule, 0, len(rules)+1)
	chain = append(chain, textRule)
	chain = append(chain, rules...)

	return &Transducer{
		rules:        chain,
		serializer:   NewSerializer(chain),
		deserializer: NewDeserializer(chain, allowedTags, cfg.logger),
	}
}

// Rules returns a copy of the rule chain, built-in rule first
func (t *Transducer) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Serialize renders value as BBCode
func (t *Transducer) Serialize(value *slate.Value, opts ...SerializeOption) (string, error) {
	return t.serializer.Serialize(value, opts...)
}

// Deserialize parses markup into a value
func (t *Transducer) Deserialize(markup string, opts ...DeserializeOption) (*slate.Value, error) {
	return t.deserializer.Deserialize(markup, opts...)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}
