package vidgrade

import (
	"math"
	"slices"
)

// Fixed aggregation weights.
const (
	StructuralWeight   = 0.5
	VisualWeight       = 0.5
	HookWeight         = 0.5
	CTAWeight          = 0.5
	CutFrequencyWeight = 0.5
	SaliencyWeight     = 0.5
)

// Canned suggestions keyed by the analyzer that raised issues.
const (
	SuggestionHook         = "优化视频开头，使用疑问句或冲突感词汇吸引注意力"
	SuggestionCTA          = "在视频结尾添加明确的行动指令，引导用户点击或购买"
	SuggestionCutFrequency = "增加剪辑密度，保持1.5-3秒的镜头长度，维持快节奏"
	SuggestionSaliency     = "调整产品位置和大小，确保产品清晰并处于画面中心"
	SuggestionMaintain     = "视频质量整体良好，继续保持当前水平"
)

// Evaluate aggregates the four analyzer results into an EvaluationResult.
// It is deterministic and has no side effects.
func Evaluate(hook HookResult, cta CTAResult, cut CutFrequencyResult, saliency SaliencyResult) *EvaluationResult {
	structural := hook.Score*HookWeight + cta.Score*CTAWeight
	visual := cut.Score*CutFrequencyWeight + saliency.Score*SaliencyWeight
	overall := Round(structural*StructuralWeight+visual*VisualWeight, 1)

	issues := collectIssues(hook, cta, cut, saliency)

	return &EvaluationResult{
		OverallScore: overall,
		Grade:        GradeFor(overall),
		Dimensions: Dimensions{
			Structural: StructuralDimension{
				Score: Round(structural, 1),
				Hook:  hook,
				CTA:   cta,
			},
			Visual: VisualDimension{
				Score:        Round(visual, 1),
				CutFrequency: cut,
				Saliency:     saliency,
			},
		},
		Issues:      issues,
		Suggestions: suggestionsFor(issues),
	}
}

// GradeFor maps a score to its letter grade.
func GradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return GradeAPlus
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeBPlus
	case score >= 60:
		return GradeB
	default:
		return GradeC
	}
}

// SeverityFor derives issue severity from the raising analyzer's own score.
func SeverityFor(score float64) Severity {
	switch {
	case score < 50:
		return SeverityHigh
	case score < 70:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

type issueSource struct {
	dimension string
	analyzer  string
	score     float64
	timestamp *float64
	issues    []string
}

func collectIssues(hook HookResult, cta CTAResult, cut CutFrequencyResult, saliency SaliencyResult) []Issue {
	ctaTimestamp := cta.Timestamp
	sources := []issueSource{
		{DimensionStructural, AnalyzerHook, hook.Score, nil, hook.Issues},
		{DimensionStructural, AnalyzerCTA, cta.Score, &ctaTimestamp, cta.Issues},
		{DimensionVisual, AnalyzerCutFrequency, cut.Score, nil, cut.Issues},
		{DimensionVisual, AnalyzerSaliency, saliency.Score, nil, saliency.Issues},
	}

	issues := []Issue{}
	for _, src := range sources {
		severity := SeverityFor(src.score)
		for _, text := range src.issues {
			issues = append(issues, Issue{
				Dimension: src.dimension,
				Analyzer:  src.analyzer,
				Severity:  severity,
				Issue:     text,
				Timestamp: src.timestamp,
				Score:     src.score,
			})
		}
	}

	slices.SortStableFunc(issues, func(a, b Issue) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})
	return issues
}

func suggestionsFor(issues []Issue) []string {
	has := make(map[string]bool, 4)
	for _, issue := range issues {
		has[issue.Analyzer] = true
	}

	var suggestions []string
	for _, s := range []struct {
		analyzer   string
		suggestion string
	}{
		{AnalyzerHook, SuggestionHook},
		{AnalyzerCTA, SuggestionCTA},
		{AnalyzerCutFrequency, SuggestionCutFrequency},
		{AnalyzerSaliency, SuggestionSaliency},
	} {
		if has[s.analyzer] {
			suggestions = append(suggestions, s.suggestion)
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, SuggestionMaintain)
	}
	return suggestions
}
