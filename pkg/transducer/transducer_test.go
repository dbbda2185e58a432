package transducer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/bbslate/pkg/metrics"
	"github.com/athapong/bbslate/pkg/slate"
)

func TestNew_TextRuleComesFirst(t *testing.T) {
	tr, _ := newTestTransducer()

	rules := tr.Rules()
	require.Len(t, rules, len(testRules())+1)
	assert.Equal(t, "text", rules[0].Name)
	assert.Equal(t, "p", rules[1].Name)
}

func TestRules_CannotReplaceEscaping(t *testing.T) {
	tr, _ := newTestTransducer()

	rules := tr.Rules()
	rules[0].Serialize = func(_ slate.Object, children string) (string, bool) {
		return children, true
	}

	out, err := tr.Serialize(slate.NewValue(slate.NewText("[b]")))
	require.NoError(t, err)
	assert.Equal(t, `\[b\]`, out)

	fresh, _ := newTestTransducer()
	out, err = fresh.Serialize(slate.NewValue(slate.NewText("[b]")))
	require.NoError(t, err)
	assert.Equal(t, `\[b\]`, out)
}

func TestNew_WithoutCallerRules(t *testing.T) {
	tr := New(nil, nil)

	value, err := tr.Deserialize("just text", WithType("inline"))
	require.NoError(t, err)
	assert.Equal(t, slate.NewValue(slate.NewText("just text")), value)

	out, err := tr.Serialize(value)
	require.NoError(t, err)
	assert.Equal(t, "just text", out)
}

func TestRoundTrip(t *testing.T) {
	tr, hook := newTestTransducer()

	value := slate.NewValue(
		slate.NewBlock("paragraph", nil,
			slate.NewText("plain "),
			slate.NewText("bold", slate.NewMark("bold", nil)),
			slate.NewText(" and "),
			slate.NewText("both", slate.NewMark("bold", nil), slate.NewMark("italic", nil)),
			slate.NewInline("span", nil, slate.NewText("inside")),
		),
		slate.NewBlock("paragraph", nil, slate.NewText(`brackets [x] and \ slashes`)),
	)

	out, err := tr.Serialize(value)
	require.NoError(t, err)

	back, err := tr.Deserialize(out)
	require.NoError(t, err)
	assert.Equal(t, value, back)
	assert.Empty(t, hook.AllEntries())
}

func TestEscapingRoundTrip(t *testing.T) {
	tr, _ := newTestTransducer()

	out, err := tr.Serialize(slate.NewValue(slate.NewText(`a[b]c\d`)))
	require.NoError(t, err)
	require.Equal(t, `a\[b\]c\\d`, out)

	back, err := tr.Deserialize(out, WithType("inline"))
	require.NoError(t, err)

	// the tokenizer splits at every escape; normalization makes it one leaf again
	assert.Equal(t, []slate.Node{slate.NewText(`a[b]c\d`)}, back.Document.Nodes)
}

func TestConversionMetrics(t *testing.T) {
	tr, _ := newTestTransducer()

	okBefore := testutil.ToFloat64(metrics.ConversionsTotal.WithLabelValues(metrics.DirectionSerialize, metrics.StatusSuccess))
	errBefore := testutil.ToFloat64(metrics.ConversionsTotal.WithLabelValues(metrics.DirectionSerialize, metrics.StatusError))

	_, err := tr.Serialize(slate.NewValue(slate.NewText("x")))
	require.NoError(t, err)
	_, err = tr.Serialize(nil)
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.ConversionsTotal.WithLabelValues(metrics.DirectionSerialize, metrics.StatusSuccess)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.ConversionsTotal.WithLabelValues(metrics.DirectionSerialize, metrics.StatusError)))
}
