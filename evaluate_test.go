package vidgrade_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/vidgrade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("weights dimensions equally", func(t *testing.T) {
		t.Parallel()

		result := vidgrade.Evaluate(
			vidgrade.HookResult{Score: 90},
			vidgrade.CTAResult{Score: 80},
			vidgrade.CutFrequencyResult{Score: 70},
			vidgrade.SaliencyResult{Score: 60},
		)

		assert.InDelta(t, 85.0, result.Dimensions.Structural.Score, 0.001)
		assert.InDelta(t, 65.0, result.Dimensions.Visual.Score, 0.001)
		assert.InDelta(t, 75.0, result.OverallScore, 0.001)
		assert.Equal(t, vidgrade.GradeBPlus, result.Grade)
		assert.Empty(t, result.Issues)
		assert.NotNil(t, result.Issues)
		assert.Equal(t, []string{vidgrade.SuggestionMaintain}, result.Suggestions)
	})

	t.Run("overall score is rounded to one decimal", func(t *testing.T) {
		t.Parallel()

		result := vidgrade.Evaluate(
			vidgrade.HookResult{Score: 33.3},
			vidgrade.CTAResult{Score: 0},
			vidgrade.CutFrequencyResult{Score: 71.5},
			vidgrade.SaliencyResult{Score: 96},
		)

		// (16.65 + 83.75) / 2 = 50.2
		assert.InDelta(t, 50.2, result.OverallScore, 0.0001)
		assert.Equal(t, vidgrade.GradeC, result.Grade)
	})

	t.Run("issues are sorted by severity and keep source order within a level", func(t *testing.T) {
		t.Parallel()

		result := vidgrade.Evaluate(
			vidgrade.HookResult{Score: 80, Issues: []string{"hook-low"}},
			vidgrade.CTAResult{Score: 0, Timestamp: 25, Issues: []string{"cta-1", "cta-2"}},
			vidgrade.CutFrequencyResult{Score: 65, Issues: []string{"cut-medium"}},
			vidgrade.SaliencyResult{Score: 40, Issues: []string{"saliency-high"}},
		)

		require.Len(t, result.Issues, 5)
		var texts []string
		for _, issue := range result.Issues {
			texts = append(texts, issue.Issue)
		}
		assert.Equal(t, []string{"cta-1", "cta-2", "saliency-high", "cut-medium", "hook-low"}, texts)

		cta := result.Issues[0]
		assert.Equal(t, vidgrade.DimensionStructural, cta.Dimension)
		assert.Equal(t, vidgrade.AnalyzerCTA, cta.Analyzer)
		assert.Equal(t, vidgrade.SeverityHigh, cta.Severity)
		require.NotNil(t, cta.Timestamp)
		assert.InDelta(t, 25.0, *cta.Timestamp, 0.001)

		assert.Nil(t, result.Issues[2].Timestamp)
		assert.Equal(t, vidgrade.SeverityMedium, result.Issues[3].Severity)
		assert.Equal(t, vidgrade.SeverityLow, result.Issues[4].Severity)
		assert.Equal(t, vidgrade.DimensionVisual, result.Issues[3].Dimension)
	})

	t.Run("suggestions follow analyzer order", func(t *testing.T) {
		t.Parallel()

		result := vidgrade.Evaluate(
			vidgrade.HookResult{Score: 10, Issues: []string{"x"}},
			vidgrade.CTAResult{Score: 100},
			vidgrade.CutFrequencyResult{Score: 100},
			vidgrade.SaliencyResult{Score: 10, Issues: []string{"y", "z"}},
		)

		assert.Equal(t, []string{vidgrade.SuggestionHook, vidgrade.SuggestionSaliency}, result.Suggestions)
	})

	t.Run("result survives a JSON round trip", func(t *testing.T) {
		t.Parallel()

		result := vidgrade.Evaluate(
			vidgrade.HookResult{Score: 20, Issues: []string{"弱"}},
			vidgrade.CTAResult{Score: 0, Timestamp: 10, Issues: []string{"无"}},
			vidgrade.CutFrequencyResult{Score: 90},
			vidgrade.SaliencyResult{Score: 90},
		)

		data, err := json.Marshal(result)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"overall_score"`)

		var decoded vidgrade.EvaluationResult
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, result.OverallScore, decoded.OverallScore)
		assert.Equal(t, result.Grade, decoded.Grade)
		assert.Equal(t, len(result.Issues), len(decoded.Issues))
	})
}

func TestGradeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  vidgrade.Grade
	}{
		{100, vidgrade.GradeAPlus},
		{90, vidgrade.GradeAPlus},
		{89.9, vidgrade.GradeA},
		{80, vidgrade.GradeA},
		{79.9, vidgrade.GradeBPlus},
		{70, vidgrade.GradeBPlus},
		{60, vidgrade.GradeB},
		{59.9, vidgrade.GradeC},
		{0, vidgrade.GradeC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, vidgrade.GradeFor(tt.score), "score %v", tt.score)
	}
}

func TestSeverityFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, vidgrade.SeverityHigh, vidgrade.SeverityFor(49.9))
	assert.Equal(t, vidgrade.SeverityMedium, vidgrade.SeverityFor(50))
	assert.Equal(t, vidgrade.SeverityMedium, vidgrade.SeverityFor(69.9))
	assert.Equal(t, vidgrade.SeverityLow, vidgrade.SeverityFor(70))
}
