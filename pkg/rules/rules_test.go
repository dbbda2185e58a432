package rules

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/bbslate/pkg/slate"
	"github.com/athapong/bbslate/pkg/transducer"
)

func newTransducer(t *testing.T) (*transducer.Transducer, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	return transducer.New(Standard(), Tags(), transducer.WithLogger(logger)), hook
}

func TestStandard_CoversEveryTag(t *testing.T) {
	names := make(map[string]bool)
	for _, rule := range Standard() {
		names[rule.Name] = true
	}
	for _, tag := range Tags().ToSlice() {
		if tag == "*" {
			tag = "list"
		}
		assert.True(t, names[tag], "no rule for %q", tag)
	}
}

func TestDeserialize_ForumPost(t *testing.T) {
	tr, hook := newTransducer(t)

	markup := `[p]Hello [b]everyone[/b], see [url=https://example.com]this [i]page[/i][/url].[/p]
[quote="Ann"]Quoted [color=red]text[/color][/quote]
[list]
[*]first
[*]second [u]item[/u]
[/list]
[hr]
[code=go]fmt.Println("[b]not bold[/b]")[/code]`

	value, err := tr.Deserialize(markup)
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())

	expected := slate.NewValue(
		slate.NewBlock(TypeParagraph, nil,
			slate.NewText("Hello "),
			slate.NewText("everyone", slate.NewMark(MarkBold, nil)),
			slate.NewText(", see "),
			slate.NewInline(TypeLink, slate.Data{"href": "https://example.com"},
				slate.NewText("this "),
				slate.NewText("page", slate.NewMark(MarkItalic, nil)),
			),
			slate.NewText("."),
		),
		slate.NewBlock(TypeQuote, slate.Data{"author": "Ann"},
			slate.NewText("Quoted "),
			slate.NewText("text", slate.NewMark(MarkColor, slate.Data{"color": "red"})),
		),
		slate.NewBlock(TypeBulletedList, nil,
			slate.NewBlock(TypeListItem, nil, slate.NewText("first")),
			slate.NewBlock(TypeListItem, nil,
				slate.NewText("second "),
				slate.NewText("item", slate.NewMark(MarkUnderline, nil)),
			),
		),
		slate.NewBlock(TypeDivider, nil, slate.NewText("")),
		slate.NewBlock(TypeCode, slate.Data{"language": "go"},
			slate.NewText(`fmt.Println("[b]not bold[/b]")`),
		),
	)
	assert.Equal(t, expected, value)
}

func TestRoundTrip_StandardVocabulary(t *testing.T) {
	tr, hook := newTransducer(t)

	value := slate.NewValue(
		slate.NewBlock(TypeParagraph, nil,
			slate.NewText("a "),
			slate.NewText("b", slate.NewMark(MarkStrikethrough, nil), slate.NewMark(MarkSize, slate.Data{"size": "12"})),
			slate.NewText("c", slate.NewMark(MarkSuperscript, nil)),
			slate.NewText("d", slate.NewMark(MarkSubscript, nil)),
			slate.NewInline(TypeImage, slate.Data{"src": "https://example.com/cat.png"}, slate.NewText("")),
		),
		slate.NewBlock(TypeCenter, nil, slate.NewText("[centered]")),
		slate.NewBlock(TypeNumberedList, slate.Data{"style": "a"},
			slate.NewBlock(TypeListItem, nil, slate.NewText("one")),
			slate.NewBlock(TypeListItem, nil,
				slate.NewText("two"),
				slate.NewBlock(TypeBulletedList, nil,
					slate.NewBlock(TypeListItem, nil, slate.NewText("nested")),
				),
			),
		),
		slate.NewBlock(TypeCode, slate.Data{}, slate.NewText("x := a[0]")),
	)

	out, err := tr.Serialize(value)
	require.NoError(t, err)

	back, err := tr.Deserialize(out)
	require.NoError(t, err)
	assert.Equal(t, value, back)
	assert.Empty(t, hook.AllEntries())
}

func TestSerialize_StandardVocabulary(t *testing.T) {
	tr, _ := newTransducer(t)

	value := slate.NewValue(
		slate.NewBlock(TypeParagraph, nil,
			slate.NewInline(TypeLink, slate.Data{"href": "/a"}, slate.NewText("go")),
			slate.NewInline(TypeImage, slate.Data{"src": "x.png", "size": "10x10"}, slate.NewText("")),
		),
		slate.NewBlock(TypeNumberedList, nil, slate.NewBlock(TypeListItem, nil, slate.NewText("n"))),
		slate.NewBlock(TypeQuote, nil, slate.NewText("q")),
		slate.NewBlock(TypeDivider, nil, slate.NewText("")),
	)

	out, err := tr.Serialize(value)
	require.NoError(t, err)
	assert.Equal(t, "[p][url=/a]go[/url][img=10x10]x.png[/img][/p]\n[list=1][*]n[/list]\n[quote]q[/quote]\n[hr]", out)
}

func TestDeserialize_LinkWithoutValue(t *testing.T) {
	tr, _ := newTransducer(t)

	value, err := tr.Deserialize("[url]https://example.com[/url]", transducer.WithType("inline"))
	require.NoError(t, err)
	require.Len(t, value.Document.Nodes, 1)

	link := value.Document.Nodes[0].(*slate.Inline)
	assert.Equal(t, slate.Data{"href": "https://example.com"}, link.Data)
}

func TestDeserialize_ListItems(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected []string
	}{
		{name: "open items", markup: "[list][*]a[*]b[/list]", expected: []string{"a", "b"}},
		{name: "closed items", markup: "[list]\n[*]a[/*]\n[*]b[/*]\n[/list]", expected: []string{"a", "b"}},
		{name: "text before first item", markup: "[list]intro[*]a[/list]", expected: []string{"intro", "a"}},
		{name: "empty", markup: "[list]\n[/list]", expected: []string{}},
		{name: "open items before a closed one", markup: "[list][*]a[*]b[/*][/list]", expected: []string{"a", "b"}},
		{name: "open items on separate lines", markup: "[list]\n[*]a\n[*]b\n[*]c[/*]\n[/list]", expected: []string{"a", "b", "c"}},
		{name: "open item with markup", markup: "[list][*]a [b]b[/b][*]c[/list]", expected: []string{"a b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTransducer(t)

			value, err := tr.Deserialize(tt.markup)
			require.NoError(t, err)
			require.Len(t, value.Document.Nodes, 1)

			list := value.Document.Nodes[0].(*slate.Block)
			assert.Equal(t, TypeBulletedList, list.Type)

			texts := []string{}
			for _, item := range list.Nodes {
				assert.Equal(t, TypeListItem, item.(*slate.Block).Type)
				texts = append(texts, slate.PlainText(item))
			}
			assert.Equal(t, tt.expected, texts)
		})
	}
}

func TestDeserialize_OpenItemsKeepContent(t *testing.T) {
	tr, hook := newTransducer(t)

	value, err := tr.Deserialize("[list][*]a[*]b[/list][list][*]c[/*][/list]")
	require.NoError(t, err)
	require.Len(t, value.Document.Nodes, 2)
	assert.Equal(t, "abc", slate.PlainText(value.Document.Nodes...))
	assert.Empty(t, hook.AllEntries())

	out, err := tr.Serialize(value)
	require.NoError(t, err)
	assert.Equal(t, "[list][*]a[*]b[/list]\n[list][*]c[/list]", out)
}

func TestDeserialize_UnclosedMarkStaysLiteral(t *testing.T) {
	tr, hook := newTransducer(t)

	value, err := tr.Deserialize("[p][b][b]x[/b]y[/p]")
	require.NoError(t, err)
	require.Len(t, value.Document.Nodes, 1)

	expected := slate.NewBlock(TypeParagraph, nil,
		slate.NewText("[b]"),
		slate.NewText("x", slate.NewMark(MarkBold, nil)),
		slate.NewText("y"),
	)
	assert.Equal(t, expected, value.Document.Nodes[0])

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "b", hook.LastEntry().Data["tag"])

	out, err := tr.Serialize(value)
	require.NoError(t, err)
	assert.Equal(t, `[p]\[b\][b]x[/b]y[/p]`, out)
}

func TestSerialize_LinkWithoutRedundantValue(t *testing.T) {
	tr, _ := newTransducer(t)

	value, err := tr.Deserialize("[p][url]https://example.com[/url] [url=/a]go[/url][/p]")
	require.NoError(t, err)

	out, err := tr.Serialize(value)
	require.NoError(t, err)
	assert.Equal(t, "[p][url]https://example.com[/url] [url=/a]go[/url][/p]", out)
}

func TestDeserialize_UnknownTagInsideKnownBlock(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tr := transducer.New(Standard(), nil, transducer.WithLogger(logger))

	value, err := tr.Deserialize("[p][spoiler]x[/spoiler][/p]")
	require.NoError(t, err)

	assert.Equal(t, "[spoiler]x[/spoiler]", slate.PlainText(value.Document.Nodes...))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "spoiler", hook.LastEntry().Data["tag"])
}

func TestDeserialize_DisallowedTagStaysText(t *testing.T) {
	tr, hook := newTransducer(t)

	value, err := tr.Deserialize("[p][spoiler]x[/spoiler][/p]")
	require.NoError(t, err)

	assert.Equal(t, []slate.Node{slate.NewText("[spoiler]x[/spoiler]")}, slate.Children(value.Document.Nodes[0]))
	assert.Empty(t, hook.AllEntries())
}
