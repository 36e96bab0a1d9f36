package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idt-crispr-bot/internal/model"
)

func guides(n int) []any {
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, map[string]any{
			"Sequence":       fmt.Sprintf("SEQ%02d", i),
			"OnTargetScore":  float64(70),
			"OffTargetScore": float64(55),
		})
	}
	return out
}

func sections(m model.Message) []string {
	var out []string
	for _, b := range m.Blocks {
		if b.Kind == model.BlockSection {
			out = append(out, b.Text)
		}
	}
	return out
}

func TestScoreTier(t *testing.T) {
	tests := []struct {
		score model.Score
		want  Tier
	}{
		{model.NumericScore(60), TierHigh},
		{model.NumericScore(99), TierHigh},
		{model.NumericScore(59.9), TierMedium},
		{model.NumericScore(40), TierMedium},
		{model.NumericScore(39.99), TierLow},
		{model.Score{}, TierLow},
		{model.Score{Raw: "n/a"}, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreTier(tt.score), "score %+v", tt.score)
	}
}

func TestRecommended(t *testing.T) {
	assert.True(t, Recommended(model.NumericScore(60), model.NumericScore(50)))
	assert.False(t, Recommended(model.NumericScore(60), model.NumericScore(49)))
	assert.False(t, Recommended(model.NumericScore(59), model.NumericScore(100)))
	assert.False(t, Recommended(model.Score{Raw: "70"}, model.NumericScore(80)))
}

func TestCustomResultsCapsEntries(t *testing.T) {
	msg := CustomResults(map[string]any{"Guides": guides(25)}, model.Human)
	secs := sections(msg)
	require.Len(t, secs, MaxEntries)
	for i, s := range secs {
		assert.Contains(t, s, fmt.Sprintf("*Guide #%d*", i+1))
		assert.Contains(t, s, fmt.Sprintf("`SEQ%02d`", i))
	}
	assert.Equal(t, model.BlockHeader, msg.Blocks[0].Kind)
	assert.Equal(t, model.BlockContext, msg.Blocks[len(msg.Blocks)-1].Kind)
	assert.Contains(t, msg.Blocks[len(msg.Blocks)-1].Text, "CRISPR_CUSTOM")
	assert.Equal(t, 2, msg.Count(model.BlockDivider))
}

func TestCustomResultsTopLevelArrayAndAliases(t *testing.T) {
	payload := []any{
		map[string]any{"sequence": "low", "onTargetScore": float64(35), "position": float64(12), "strand": "+"},
		map[string]any{"GuideSequence": "fallback"},
		map[string]any{"Sequence": "pascal", "sequence": "camel"},
	}
	secs := sections(CustomResults(payload, model.Mouse))
	require.Len(t, secs, 3)
	assert.Contains(t, secs[0], "`low`")
	assert.Contains(t, secs[0], "🔴 On-target: *35*")
	assert.Contains(t, secs[0], "Pos: 12")
	assert.Contains(t, secs[0], "Strand: +")
	assert.Contains(t, secs[1], "`fallback`")
	assert.Contains(t, secs[1], "🔴 On-target: *—*")
	assert.Contains(t, secs[2], "`pascal`")
}

func TestResultsFromResultsKey(t *testing.T) {
	msg := PredesignResults(map[string]any{"Results": guides(2)}, "tnnt2", model.Rat)
	secs := sections(msg)
	require.Len(t, secs, 2)
	assert.Contains(t, msg.Blocks[0].Text, "TNNT2")
	assert.Contains(t, msg.Blocks[1].Text, "Rattus norvegicus")
	assert.Contains(t, secs[0], "Design ID: `—`")
}

func TestEmptyResultsRenderNotice(t *testing.T) {
	tests := []struct {
		name string
		msg  model.Message
		want string
	}{
		{"custom", CustomResults(map[string]any{"Guides": []any{}}, model.Human), "No guide RNAs found"},
		{"custom nil", CustomResults(nil, model.Human), "No guide RNAs found"},
		{"checker", CheckerResults([]any{}, "ACGT", model.Human), "No results returned"},
		{"checker results", CheckerResults(map[string]any{"Results": []any{}}, "ACGT", model.Human), "No results returned"},
		{"predesign", PredesignResults(map[string]any{}, "BRCA1", model.Celegans), "No predesigned gRNAs found for *BRCA1*"},
	}
	for _, tt := range tests {
		secs := sections(tt.msg)
		require.Len(t, secs, 1, tt.name)
		assert.Contains(t, secs[0], tt.want, tt.name)
	}
}

func TestCheckerVerdicts(t *testing.T) {
	payload := map[string]any{"Results": []any{
		map[string]any{"OnTargetScore": float64(60), "OffTargetScore": float64(50)},
		map[string]any{"OnTargetScore": float64(60), "OffTargetScore": float64(49)},
		map[string]any{"onTargetScore": float64(59), "offTargetScore": float64(100)},
		map[string]any{"OnTargetScore": "high"},
	}}
	secs := sections(CheckerResults(payload, "ACGTACGTACGTACGTACGT", model.Human))
	require.Len(t, secs, 4)
	assert.Contains(t, secs[0], "*Recommended*")
	assert.Contains(t, secs[1], "*Proceed with caution*")
	assert.Contains(t, secs[2], "*Proceed with caution*")
	assert.Contains(t, secs[3], "🔴 *On-target score:* high/100")
}

func TestCheckerSingleObjectPayload(t *testing.T) {
	secs := sections(CheckerResults(map[string]any{"OnTargetScore": float64(88.5), "OffTargetScore": float64(72)}, "ACGT", model.Human))
	require.Len(t, secs, 1)
	assert.Contains(t, secs[0], "🟢 *On-target score:* 88.5/100")
}

func TestHelpListsSpecies(t *testing.T) {
	msg := Help()
	require.Len(t, msg.Blocks, 2)
	assert.Contains(t, msg.Blocks[1].Text, "human, mouse, rat, zebrafish, celegans")
}

func TestErrorMessage(t *testing.T) {
	msg := Error("boom")
	require.Len(t, msg.Blocks, 1)
	assert.True(t, strings.HasPrefix(msg.Blocks[0].Text, "❌ *Error:* boom"))
}
