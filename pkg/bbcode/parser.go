package bbcode

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// Options controls tokenizing
type Options struct {
	// OnlyAllowTags restricts which tag names are recognised. Anything else
	// is kept as literal text. A nil or empty set allows every tag.
	OnlyAllowTags mapset.Set[string]

	// EnableEscapeTags makes \[, \] and \\ produce the escaped character.
	EnableEscapeTags bool
}

// Order matters: escapes and tags must be tried before plain characters.
var (
	escapeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Escape", Pattern: `\\[\[\]\\]`},
		{Name: "Close", Pattern: `\[/[^\[\]\s]+\]`},
		{Name: "Open", Pattern: `\[[^\[\]\s/=][^\[\]]*\]`},
		{Name: "Text", Pattern: `[^\[\]\\]+`},
		{Name: "Char", Pattern: `[\[\]\\]`},
	})

	plainLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Close", Pattern: `\[/[^\[\]\s]+\]`},
		{Name: "Open", Pattern: `\[[^\[\]\s/=][^\[\]]*\]`},
		{Name: "Text", Pattern: `[^\[\]]+`},
		{Name: "Char", Pattern: `[\[\]]`},
	})

	attrPattern = regexp.MustCompile(`\s+([A-Za-z][\w-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// Parse tokenizes markup into a sequence of elements and text. Adjacent
// Text entries are not merged.
func Parse(markup string, opts Options) ([]Node, error) {
	def := plainLexer
	if opts.EnableEscapeTags {
		def = escapeLexer
	}

	lex, err := def.LexString("", markup)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize bbcode")
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize bbcode")
	}

	b := newTreeBuilder(def.Symbols(), opts.OnlyAllowTags)
	return b.build(tokens), nil
}

type treeBuilder struct {
	escape, open, close lexer.TokenType
	allowed             mapset.Set[string]

	stack []*Element
}

func newTreeBuilder(symbols map[string]lexer.TokenType, allowed mapset.Set[string]) *treeBuilder {
	escape, ok := symbols["Escape"]
	if !ok {
		escape = lexer.EOF
	}
	return &treeBuilder{
		escape:  escape,
		open:    symbols["Open"],
		close:   symbols["Close"],
		allowed: allowed,
	}
}

func (b *treeBuilder) build(tokens []lexer.Token) []Node {
	root := &Element{}
	b.stack = []*Element{root}

	for _, tok := range tokens {
		switch {
		case tok.EOF():
		case tok.Type == b.escape:
			b.appendText(tok.Value[1:])
		case tok.Type == b.open:
			b.openTag(tok.Value)
		case tok.Type == b.close:
			b.closeTag(tok.Value)
		default:
			b.appendText(tok.Value)
		}
	}
	b.unwind(1)

	return root.Content
}

func (b *treeBuilder) top() *Element {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) appendText(text string) {
	top := b.top()
	top.Content = append(top.Content, Text(text))
}

func (b *treeBuilder) openTag(raw string) {
	name, attrs := parseOpenTag(raw)
	if !b.isAllowed(name) {
		b.appendText(raw)
		return
	}

	el := &Element{Tag: name, Attrs: attrs, Open: raw}
	top := b.top()
	top.Content = append(top.Content, el)
	b.stack = append(b.stack, el)
}

func (b *treeBuilder) closeTag(raw string) {
	name := closeName(raw)
	if !b.isAllowed(name) {
		b.appendText(raw)
		return
	}

	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].Tag == name {
			b.unwind(i + 1)
			el := b.stack[i]
			el.Closed = true
			el.Close = raw
			b.stack = b.stack[:i]
			return
		}
	}
	b.appendText(raw)
}

// unwind pops every element above depth. Those were never closed, so each
// becomes void and its content moves up to follow it in its parent.
func (b *treeBuilder) unwind(depth int) {
	for len(b.stack) > depth {
		el := b.top()
		b.stack = b.stack[:len(b.stack)-1]

		parent := b.top()
		content := el.Content
		el.Content = nil
		parent.Content = append(parent.Content, content...)
	}
}

func (b *treeBuilder) isAllowed(name string) bool {
	if b.allowed == nil || b.allowed.Cardinality() == 0 {
		return true
	}
	return b.allowed.Contains(name)
}

func closeName(raw string) string {
	return strings.ToLower(raw[2 : len(raw)-1])
}

// parseOpenTag splits "[name=value key=value ...]" into a name and attributes
func parseOpenTag(raw string) (string, map[string]string) {
	body := raw[1 : len(raw)-1]
	i := strings.IndexAny(body, " \t\r\n=")
	if i < 0 {
		return strings.ToLower(body), nil
	}

	name := strings.ToLower(body[:i])
	rest := body[i:]
	attrs := make(map[string]string)

	if rest[0] == '=' {
		var value string
		value, rest = readDefaultValue(rest[1:])
		attrs[name] = value
	}

	for _, m := range attrPattern.FindAllStringSubmatch(rest, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		if value == "" {
			value = m[4]
		}
		attrs[strings.ToLower(m[1])] = value
	}

	return name, attrs
}

// readDefaultValue reads the value of [tag=value], which is either quoted or
// runs until the first key=value pair.
func readDefaultValue(s string) (value, rest string) {
	trimmed := strings.TrimLeft(s, " \t")
	if trimmed != "" && (trimmed[0] == '"' || trimmed[0] == '\'') {
		if end := strings.IndexByte(trimmed[1:], trimmed[0]); end >= 0 {
			return trimmed[1 : end+1], trimmed[end+2:]
		}
	}

	if loc := attrPattern.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[:loc[0]]), s[loc[0]:]
	}
	return strings.TrimSpace(s), ""
}
