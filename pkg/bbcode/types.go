// Package bbcode turns BBCode markup into a tree of tagged elements and
// literal text. It knows nothing about what any tag means.
package bbcode

// Node is either an *Element or a Text
type Node interface {
	isNode()
}

// Text is literal text between tags, with escapes already resolved
type Text string

// Element is a tag with its attributes and content
type Element struct {
	// Tag is the lower-cased tag name.
	Tag string
	// Attrs holds tag attributes. The default attribute of [tag=value] is
	// stored under the tag name.
	Attrs map[string]string
	// Content is empty for void elements.
	Content []Node
	// Open is the opening tag exactly as written in the source.
	Open string
	// Close is the closing tag exactly as written, when there was one.
	Close string
	// Closed reports whether the source had a matching closing tag.
	Closed bool
}

func (*Element) isNode() {}
func (Text) isNode()     {}

// Attr returns the named attribute, or "" when absent
func (e *Element) Attr(name string) string {
	if e == nil || e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// Value returns the default attribute, as in [url=value]
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	return e.Attr(e.Tag)
}

// OpenTag returns the source opening tag, or [tag] when it is unknown
func (e *Element) OpenTag() string {
	if e.Open != "" {
		return e.Open
	}
	return "[" + e.Tag + "]"
}

// CloseTag returns the source closing tag, or [/tag] when it is unknown
func (e *Element) CloseTag() string {
	if e.Close != "" {
		return e.Close
	}
	return "[/" + e.Tag + "]"
}
