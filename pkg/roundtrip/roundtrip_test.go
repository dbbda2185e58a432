package roundtrip

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/bbslate/pkg/rules"
	"github.com/athapong/bbslate/pkg/transducer"
)

func newTransducer() *transducer.Transducer {
	logger, _ := test.NewNullLogger()
	return transducer.New(rules.Standard(), rules.Tags(), transducer.WithLogger(logger))
}

func TestCheck_Lossless(t *testing.T) {
	report, err := Check(newTransducer(), "  [p]a [b]bold[/b] [url=/x]link[/url][/p]\n[hr]\n")
	require.NoError(t, err)

	assert.True(t, report.Lossless)
	assert.Empty(t, report.Diff)
	assert.Equal(t, "[p]a [b]bold[/b] [url=/x]link[/url][/p]\n[hr]", report.Output)
	assert.Len(t, report.Value.Document.Nodes, 2)
}

func TestCheck_Lossy(t *testing.T) {
	// [quote="Ann"] comes back unquoted and the stray top-level text is dropped
	report, err := Check(newTransducer(), `[quote="Ann"]hi[/quote] trailing`)
	require.NoError(t, err)

	assert.False(t, report.Lossless)
	assert.Equal(t, "[quote=Ann]hi[/quote]", report.Output)
	assert.Contains(t, report.Diff, "- ")
	assert.Contains(t, report.Diff, "trailing")
}

func TestCheck_InlineType(t *testing.T) {
	report, err := Check(newTransducer(), "[b]x[/b]", transducer.WithType("inline"))
	require.NoError(t, err)
	assert.True(t, report.Lossless)
}

func TestCheck_PlainURLLink(t *testing.T) {
	report, err := Check(newTransducer(), "[url]https://example.com[/url]", transducer.WithType("inline"))
	require.NoError(t, err)
	assert.True(t, report.Lossless, report.Diff)
}

func TestSemanticDiff(t *testing.T) {
	diff := semanticDiff("same\nold", "same\nnew")
	assert.Contains(t, diff, "  same\n")
	assert.Contains(t, diff, "- old\n")
	assert.Contains(t, diff, "+ new\n")
}
