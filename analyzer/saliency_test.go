package analyzer_test

import (
	"testing"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/analyzer"
	"github.com/stretchr/testify/assert"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSaliency_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("well framed sharp product scores 100", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze(repeat(0.35, 10), repeat(1.0, 10), repeat(250, 10))

		assert.InDelta(t, 100.0, result.AreaScore, 0.001)
		assert.InDelta(t, 100.0, result.CenterScore, 0.001)
		assert.InDelta(t, 100.0, result.ClarityScore, 0.001)
		assert.InDelta(t, 100.0, result.Score, 0.001)
		assert.Equal(t, vidgrade.FocusExcellent, result.FocusQuality)
		assert.Empty(t, result.BlurFrames)
		assert.Empty(t, result.Issues)
		assert.Equal(t, "产品占比适中（35.0%），位置居中，画面清晰", result.Analysis)
	})

	t.Run("no clarity samples uses default clarity", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze(repeat(0.35, 4), repeat(1.0, 4), nil)

		assert.InDelta(t, 80.0, result.ClarityScore, 0.001)
		assert.InDelta(t, 96.0, result.Score, 0.001)
		assert.Equal(t, vidgrade.FocusGood, result.FocusQuality)
	})

	t.Run("small product is penalised proportionally", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze([]float64{0.15}, []float64{0.8}, []float64{200})

		assert.InDelta(t, 75.0, result.AreaScore, 0.001)
		assert.Equal(t, []string{"产品在画面中过小（15.0%），建议增大产品占比"}, result.Issues)
	})

	t.Run("tiny product floors at 50", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze([]float64{0.01}, []float64{0.8}, []float64{200})

		assert.InDelta(t, 50.0, result.AreaScore, 0.001)
	})

	t.Run("oversized product floors at 70", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze([]float64{0.6}, []float64{0.8}, []float64{200})
		assert.InDelta(t, 90.0, result.AreaScore, 0.001)
		assert.Contains(t, result.Issues[0], "产品占比过大")

		result = analyzer.NewSaliency().Analyze([]float64{0.95}, []float64{0.8}, []float64{200})
		assert.InDelta(t, 70.0, result.AreaScore, 0.001)
	})

	t.Run("off-center and blurry frames raise issues", func(t *testing.T) {
		t.Parallel()

		clarity := []float64{50, 60, 300, 300, 300}
		result := analyzer.NewSaliency().Analyze(repeat(0.3, 5), repeat(0.5, 5), clarity)

		assert.Equal(t, []int{0, 1}, result.BlurFrames)
		assert.InDelta(t, 60.0, result.ClarityScore, 0.001)
		assert.Equal(t, vidgrade.FocusFair, result.FocusQuality)
		assert.Equal(t, []string{
			"产品位置偏离中心，建议调整构图",
			"2个帧存在模糊问题，建议检查对焦",
		}, result.Issues)
		// 0.4*100 + 0.4*50 + 0.2*60
		assert.InDelta(t, 72.0, result.Score, 0.001)
		assert.Equal(t, "产品占比适中（30.0%），位置偏离中心，存在2帧模糊", result.Analysis)
	})

	t.Run("empty input is neutral", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze(nil, nil, nil)

		assert.InDelta(t, 50.0, result.Score, 0.001)
		assert.Equal(t, vidgrade.FocusUnknown, result.FocusQuality)
		assert.Equal(t, analyzer.NoProductAnalysis, result.Analysis)
		assert.Empty(t, result.Issues)
	})

	t.Run("all blurred frames give poor focus", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().Analyze(repeat(0.3, 3), repeat(0.9, 3), repeat(10, 3))

		assert.InDelta(t, 0.0, result.ClarityScore, 0.001)
		assert.Equal(t, vidgrade.FocusPoor, result.FocusQuality)
	})
}

func TestSaliency_AnalyzeFrames(t *testing.T) {
	t.Parallel()

	t.Run("blur frames are frame indices", func(t *testing.T) {
		t.Parallel()

		frames := []vidgrade.FrameMetrics{
			{ProductAreaRatio: 0.3, CenterRatio: 0.9, ClarityScore: 0},
			{ProductAreaRatio: 0.4, CenterRatio: 0.7, ClarityScore: 500},
			{ProductAreaRatio: 0.2, CenterRatio: 0.8, ClarityScore: 50},
		}

		result := analyzer.NewSaliency().AnalyzeFrames(frames)

		assert.InDelta(t, 0.3, result.AvgProductArea, 0.001)
		assert.InDelta(t, 0.8, result.CenterRatio, 0.001)
		assert.Equal(t, []int{0, 2}, result.BlurFrames)
		assert.InDelta(t, 33.3, result.ClarityScore, 0.001)
		assert.Equal(t, vidgrade.FocusPoor, result.FocusQuality)
	})

	t.Run("zero clarity is a blurred frame", func(t *testing.T) {
		t.Parallel()

		result := analyzer.NewSaliency().AnalyzeFrames([]vidgrade.FrameMetrics{
			{ProductAreaRatio: 0.3, CenterRatio: 0.9, ClarityScore: 0},
		})

		assert.Equal(t, []int{0}, result.BlurFrames)
		assert.InDelta(t, 0.0, result.ClarityScore, 0.001)
		assert.Equal(t, vidgrade.FocusPoor, result.FocusQuality)
	})
}

func TestAnalyzers_ScoresStayInRange(t *testing.T) {
	t.Parallel()

	hook := analyzer.NewHook()
	cta := analyzer.NewCTA()
	cut := analyzer.NewCutFrequency()
	sal := analyzer.NewSaliency()

	for _, magnitude := range []float64{-5, 0, 0.5, 2.5, 100} {
		for _, text := range []string{"", "竟然", "为什么", "普通文本"} {
			s := hook.Analyze(text, text, magnitude).Score
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
	for _, d := range []float64{0, 3, 60} {
		s := cta.Analyze("", "", d, false).Score
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
	for _, length := range []float64{0.01, 1, 2, 4, 30} {
		s := cut.Analyze(evenShots(5, length), 5*length).Score
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
	for _, area := range []float64{0, 0.1, 0.35, 0.8, 1} {
		for _, center := range []float64{0, 0.5, 1} {
			s := sal.Analyze([]float64{area}, []float64{center}, []float64{50, 150}).Score
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
}
