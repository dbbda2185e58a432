// Package roundtrip checks whether BBCode markup survives a conversion to
// Slate and back.
package roundtrip

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/athapong/bbslate/pkg/slate"
	"github.com/athapong/bbslate/pkg/transducer"
)

// Report is the outcome of a round trip
type Report struct {
	Input    string
	Output   string
	Value    *slate.Value
	Lossless bool
	// Diff is empty when the round trip is lossless
	Diff string
}

// Check deserializes markup, serializes the result and compares it with the
// trimmed input
func Check(t *transducer.Transducer, markup string, opts ...transducer.DeserializeOption) (*Report, error) {
	value, err := t.Deserialize(markup, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to deserialize")
	}

	out, err := t.Serialize(value)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize")
	}

	input := strings.TrimSpace(markup)
	report := &Report{
		Input:    input,
		Output:   out,
		Value:    value,
		Lossless: input == out,
	}
	if !report.Lossless {
		report.Diff = semanticDiff(input, out)
	}
	return report, nil
}

// semanticDiff prefixes removed lines with "- ", added lines with "+ " and
// unchanged ones with two spaces
func semanticDiff(source, target string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(source, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var result strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			result.WriteString("- " + strings.ReplaceAll(diff.Text, "\n", "\n- ") + "\n")
		case diffmatchpatch.DiffInsert:
			result.WriteString("+ " + strings.ReplaceAll(diff.Text, "\n", "\n+ ") + "\n")
		case diffmatchpatch.DiffEqual:
			result.WriteString("  " + strings.ReplaceAll(diff.Text, "\n", "\n  ") + "\n")
		}
	}

	return result.String()
}
