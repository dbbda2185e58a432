package slate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMarshalJSON_SlateShape(t *testing.T) {
	value := NewValue(
		NewBlock("paragraph", nil,
			NewText("hi ", NewMark("bold", nil)),
			NewInline("link", Data{"href": "https://example.com"}, NewText("there")),
		),
	)

	out, err := json.Marshal(value)
	require.NoError(t, err)

	expected := `{
		"object": "value",
		"document": {
			"object": "document",
			"data": {},
			"nodes": [{
				"object": "block",
				"type": "paragraph",
				"data": {},
				"nodes": [
					{"object": "text", "text": "hi ", "marks": [{"object": "mark", "type": "bold", "data": {}}]},
					{"object": "inline", "type": "link", "data": {"href": "https://example.com"}, "nodes": [
						{"object": "text", "text": "there", "marks": []}
					]}
				]
			}]
		}
	}`
	assert.JSONEq(t, expected, string(out))
}

func TestValueUnmarshalJSON(t *testing.T) {
	input := `{"object":"value","document":{"object":"document","nodes":[
		{"object":"block","type":"quote","data":{"author":"ann"},"nodes":[
			{"object":"text","text":"x","marks":[{"object":"mark","type":"italic"}]}
		]},
		{"object":"text","text":"loose"}
	]}}`

	var value Value
	require.NoError(t, json.Unmarshal([]byte(input), &value))
	require.NotNil(t, value.Document)
	require.Len(t, value.Document.Nodes, 2)

	quote, ok := value.Document.Nodes[0].(*Block)
	require.True(t, ok)
	assert.Equal(t, "quote", quote.Type)
	assert.Equal(t, Data{"author": "ann"}, quote.Data)
	assert.Equal(t, []Node{NewText("x", NewMark("italic", nil))}, quote.Nodes)

	assert.Equal(t, NewText("loose"), value.Document.Nodes[1])
	assert.Equal(t, Data{}, value.Document.Data)
}

func TestValueJSONRoundTrip(t *testing.T) {
	value := NewValue(
		NewBlock("bulleted-list", nil,
			NewBlock("list-item", nil, NewText("one", NewMark("color", Data{"color": "red"}))),
			NewBlock("list-item", nil, NewText("two")),
		),
	)

	out, err := json.Marshal(value)
	require.NoError(t, err)

	var decoded Value
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, value, &decoded)
}

func TestValueUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid json", input: `{"object":`},
		{name: "wrong object", input: `{"object":"document","nodes":[]}`},
		{name: "missing document", input: `{"object":"value"}`},
		{name: "unknown node object", input: `{"document":{"nodes":[{"object":"mark","type":"bold"}]}}`},
		{name: "node without object", input: `{"document":{"nodes":[{"type":"paragraph"}]}}`},
		{name: "nodes not array", input: `{"document":{"nodes":{"object":"text"}}}`},
		{name: "data not object", input: `{"document":{"nodes":[{"object":"block","type":"p","data":[1]}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var value Value
			assert.Error(t, json.Unmarshal([]byte(tt.input), &value))
		})
	}
}

func TestDecodeNode(t *testing.T) {
	node, err := DecodeNode([]byte(`{"object":"inline","type":"image","data":{"src":"a.png"}}`))
	require.NoError(t, err)
	assert.Equal(t, NewInline("image", Data{"src": "a.png"}), node)
}

func TestPlainText(t *testing.T) {
	nodes := []Node{
		NewBlock("paragraph", nil, NewText("a"), NewInline("link", nil, NewText("b"))),
		NewText("c"),
	}
	assert.Equal(t, "abc", PlainText(nodes...))
	assert.Empty(t, PlainText())
}
