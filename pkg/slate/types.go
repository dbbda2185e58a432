package slate

import "strings"

// Kind is the value of the "object" discriminator in a Slate tree
type Kind string

const (
	KindValue    Kind = "value"
	KindDocument Kind = "document"
	KindBlock    Kind = "block"
	KindInline   Kind = "inline"
	KindText     Kind = "text"
	KindMark     Kind = "mark"
	KindString   Kind = "string"
)

// Data holds the free-form attributes of blocks, inlines and marks
type Data map[string]interface{}

// Object is anything that carries an object discriminator. Serialization
// rules receive one of *Block, *Inline, Mark or String.
type Object interface {
	Kind() Kind
}

// Fragment is anything a deserialization rule may produce: a finished node
// or a transient *MarkNode that still has to be distributed onto text leaves.
type Fragment interface {
	Object
	fragment()
}

// Node is a unit of a finished document tree. *MarkNode is deliberately not
// a Node, so marks cannot end up in a Document.
type Node interface {
	Fragment
	node()
}

// Value is the top-level container
type Value struct {
	Document *Document
}

// Document holds the top-level nodes
type Document struct {
	Data  Data
	Nodes []Node
}

// Block represents a block-level node such as a paragraph
type Block struct {
	Type  string
	Data  Data
	Nodes []Node
}

// Inline represents an inline node such as a link
type Inline struct {
	Type  string
	Data  Data
	Nodes []Node
}

// Text represents a text leaf and the marks decorating it
type Text struct {
	Text  string
	Marks []Mark
}

// Mark represents a decoration applied to a text leaf
type Mark struct {
	Type string
	Data Data
}

// MarkNode is a mark that still wraps its content. It only exists while a
// document is being built.
type MarkNode struct {
	Type  string
	Data  Data
	Nodes []Fragment
}

// String carries leaf text through the serialization rules for escaping
type String struct {
	Text string
}

func (*Value) Kind() Kind    { return KindValue }
func (*Document) Kind() Kind { return KindDocument }
func (*Block) Kind() Kind    { return KindBlock }
func (*Inline) Kind() Kind   { return KindInline }
func (*Text) Kind() Kind     { return KindText }
func (*MarkNode) Kind() Kind { return KindMark }
func (Mark) Kind() Kind      { return KindMark }
func (String) Kind() Kind    { return KindString }

func (*Block) fragment()    {}
func (*Inline) fragment()   {}
func (*Text) fragment()     {}
func (*MarkNode) fragment() {}

func (*Block) node()  {}
func (*Inline) node() {}
func (*Text) node()   {}

// NewValue wraps nodes in a document and value
func NewValue(nodes ...Node) *Value {
	if nodes == nil {
		nodes = []Node{}
	}
	return &Value{Document: &Document{Data: Data{}, Nodes: nodes}}
}

// NewBlock creates a block with non-nil data and nodes
func NewBlock(typ string, data Data, nodes ...Node) *Block {
	if data == nil {
		data = Data{}
	}
	if nodes == nil {
		nodes = []Node{}
	}
	return &Block{Type: typ, Data: data, Nodes: nodes}
}

// NewInline creates an inline with non-nil data and nodes
func NewInline(typ string, data Data, nodes ...Node) *Inline {
	if data == nil {
		data = Data{}
	}
	if nodes == nil {
		nodes = []Node{}
	}
	return &Inline{Type: typ, Data: data, Nodes: nodes}
}

// NewText creates a text leaf with the given marks
func NewText(text string, marks ...Mark) *Text {
	if marks == nil {
		marks = []Mark{}
	}
	return &Text{Text: text, Marks: marks}
}

// NewMark creates a mark with non-nil data
func NewMark(typ string, data Data) Mark {
	if data == nil {
		data = Data{}
	}
	return Mark{Type: typ, Data: data}
}

// Children returns the child nodes of blocks and inlines, nil otherwise
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Block:
		return n.Nodes
	case *Inline:
		return n.Nodes
	}
	return nil
}

// PlainText concatenates the text of every leaf under the given nodes
func PlainText(nodes ...Node) string {
	var b strings.Builder
	writeText(&b, nodes)
	return b.String()
}

func writeText(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		if t, ok := n.(*Text); ok {
			b.WriteString(t.Text)
			continue
		}
		writeText(b, Children(n))
	}
}
