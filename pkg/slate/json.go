package slate

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

type valueJSON struct {
	Object   Kind      `json:"object"`
	Document *Document `json:"document"`
}

type documentJSON struct {
	Object Kind   `json:"object"`
	Data   Data   `json:"data"`
	Nodes  []Node `json:"nodes"`
}

type elementJSON struct {
	Object Kind   `json:"object"`
	Type   string `json:"type"`
	Data   Data   `json:"data"`
	Nodes  []Node `json:"nodes"`
}

type textJSON struct {
	Object Kind   `json:"object"`
	Text   string `json:"text"`
	Marks  []Mark `json:"marks"`
}

type markJSON struct {
	Object Kind   `json:"object"`
	Type   string `json:"type"`
	Data   Data   `json:"data"`
}

// MarshalJSON encodes the value in Slate's JSON shape
func (v *Value) MarshalJSON() ([]byte, error) {
	doc := v.Document
	if doc == nil {
		doc = &Document{}
	}
	return json.Marshal(valueJSON{Object: KindValue, Document: doc})
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{Object: KindDocument, Data: orEmpty(d.Data), Nodes: orNone(d.Nodes)})
}

func (b *Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementJSON{Object: KindBlock, Type: b.Type, Data: orEmpty(b.Data), Nodes: orNone(b.Nodes)})
}

func (i *Inline) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementJSON{Object: KindInline, Type: i.Type, Data: orEmpty(i.Data), Nodes: orNone(i.Nodes)})
}

func (t *Text) MarshalJSON() ([]byte, error) {
	marks := t.Marks
	if marks == nil {
		marks = []Mark{}
	}
	return json.Marshal(textJSON{Object: KindText, Text: t.Text, Marks: marks})
}

func (m Mark) MarshalJSON() ([]byte, error) {
	return json.Marshal(markJSON{Object: KindMark, Type: m.Type, Data: orEmpty(m.Data)})
}

// UnmarshalJSON decodes a Slate JSON value
func (v *Value) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if obj := root.Get("object"); obj.Exists() && Kind(obj.String()) != KindValue {
		return errors.Errorf("expected object %q, got %q", KindValue, obj.String())
	}
	doc := root.Get("document")
	if !doc.Exists() {
		return errors.New("value has no document")
	}
	v.Document = &Document{}
	return v.Document.decode(doc)
}

// UnmarshalJSON decodes a Slate JSON document
func (d *Document) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON")
	}
	return d.decode(gjson.ParseBytes(data))
}

func (d *Document) decode(r gjson.Result) error {
	if obj := r.Get("object"); obj.Exists() && Kind(obj.String()) != KindDocument {
		return errors.Errorf("expected object %q, got %q", KindDocument, obj.String())
	}
	data, err := decodeData(r.Get("data"))
	if err != nil {
		return errors.Wrap(err, "document")
	}
	nodes, err := decodeNodes(r.Get("nodes"))
	if err != nil {
		return errors.Wrap(err, "document")
	}
	d.Data = data
	d.Nodes = nodes
	return nil
}

// DecodeNode decodes a single block, inline or text node
func DecodeNode(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	return decodeNode(gjson.ParseBytes(data))
}

func decodeNode(r gjson.Result) (Node, error) {
	object := Kind(r.Get("object").String())
	switch object {
	case KindBlock, KindInline:
		data, err := decodeData(r.Get("data"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q", object, r.Get("type").String())
		}
		nodes, err := decodeNodes(r.Get("nodes"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s %q", object, r.Get("type").String())
		}
		if object == KindBlock {
			return &Block{Type: r.Get("type").String(), Data: data, Nodes: nodes}, nil
		}
		return &Inline{Type: r.Get("type").String(), Data: data, Nodes: nodes}, nil
	case KindText:
		marks, err := decodeMarks(r.Get("marks"))
		if err != nil {
			return nil, err
		}
		return &Text{Text: r.Get("text").String(), Marks: marks}, nil
	case "":
		return nil, errors.New("node has no object")
	default:
		return nil, errors.Errorf("unsupported node object %q", object)
	}
}

func decodeNodes(r gjson.Result) ([]Node, error) {
	nodes := []Node{}
	if !r.Exists() || r.Type == gjson.Null {
		return nodes, nil
	}
	if !r.IsArray() {
		return nil, errors.New("nodes must be an array")
	}

	var err error
	r.ForEach(func(_, child gjson.Result) bool {
		var n Node
		n, err = decodeNode(child)
		if err != nil {
			return false
		}
		nodes = append(nodes, n)
		return true
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func decodeMarks(r gjson.Result) ([]Mark, error) {
	marks := []Mark{}
	if !r.Exists() || r.Type == gjson.Null {
		return marks, nil
	}
	if !r.IsArray() {
		return nil, errors.New("marks must be an array")
	}

	var err error
	r.ForEach(func(_, child gjson.Result) bool {
		if obj := child.Get("object"); obj.Exists() && Kind(obj.String()) != KindMark {
			err = errors.Errorf("expected object %q, got %q", KindMark, obj.String())
			return false
		}
		var data Data
		data, err = decodeData(child.Get("data"))
		if err != nil {
			return false
		}
		marks = append(marks, Mark{Type: child.Get("type").String(), Data: data})
		return true
	})
	if err != nil {
		return nil, err
	}
	return marks, nil
}

func decodeData(r gjson.Result) (Data, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return Data{}, nil
	}
	m, ok := r.Value().(map[string]interface{})
	if !ok {
		return nil, errors.New("data must be an object")
	}
	return Data(m), nil
}

func orEmpty(d Data) Data {
	if d == nil {
		return Data{}
	}
	return d
}

func orNone(nodes []Node) []Node {
	if nodes == nil {
		return []Node{}
	}
	return nodes
}
