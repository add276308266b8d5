package vidgrade

import "time"

// Analyzer names used to attribute issues.
const (
	AnalyzerHook         = "hook"
	AnalyzerCTA          = "cta"
	AnalyzerCutFrequency = "cut_frequency"
	AnalyzerSaliency     = "saliency"
)

// Dimension names.
const (
	DimensionStructural = "structural"
	DimensionVisual     = "visual"
)

// Hook types.
const (
	HookConflict = "conflict"
	HookQuestion = "question"
	HookVisual   = "visual"
)

// CTA types, in detection precedence order.
const (
	CTAAudio  = "audio"
	CTAVisual = "visual"
	CTAText   = "text"
	CTANone   = "none"
)

// HookResult scores the opening three seconds.
type HookResult struct {
	Score            float64  `json:"score"`
	Detected         bool     `json:"detected"`
	HookType         string   `json:"hook_type"`
	Content          string   `json:"content"`
	HasConflict      bool     `json:"has_conflict"`
	HasQuestion      bool     `json:"has_question"`
	SaturationChange float64  `json:"saturation_change"`
	TextScore        float64  `json:"text_score"`
	VisualScore      float64  `json:"visual_score"`
	Issues           []string `json:"issues"`
}

// CTAResult scores the closing call to action.
type CTAResult struct {
	Score         float64  `json:"score"`
	Detected      bool     `json:"detected"`
	CTAType       string   `json:"cta_type"`
	Content       string   `json:"content"`
	Timestamp     float64  `json:"timestamp"` // start of the closing window
	HasAudioCTA   bool     `json:"has_audio_cta"`
	HasVisualCTA  bool     `json:"has_visual_cta"`
	HasTextCTA    bool     `json:"has_text_cta"`
	KeywordsFound []string `json:"keywords_found"`
	Issues        []string `json:"issues"`
}

// SlowShot is a shot long enough to drag the pace.
type SlowShot struct {
	ShotNumber int     `json:"shot_number"` // 1-based
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
}

// CutFrequencyResult scores the editing pace.
type CutFrequencyResult struct {
	Score         float64    `json:"score"`
	AvgShotLength float64    `json:"avg_shot_length"`
	TotalCuts     int        `json:"total_cuts"`
	SlowShots     []SlowShot `json:"slow_shots"`
	Analysis      string     `json:"analysis"`
	Issues        []string   `json:"issues"`
}

// Focus quality labels.
const (
	FocusExcellent = "excellent"
	FocusGood      = "good"
	FocusFair      = "fair"
	FocusPoor      = "poor"
	FocusUnknown   = "unknown"
)

// SaliencyResult scores product framing and focus.
type SaliencyResult struct {
	Score          float64  `json:"score"`
	AvgProductArea float64  `json:"avg_product_area"`
	CenterRatio    float64  `json:"center_ratio"`
	FocusQuality   string   `json:"focus_quality"`
	BlurFrames     []int    `json:"blur_frames"`
	AreaScore      float64  `json:"area_score"`
	CenterScore    float64  `json:"center_score"`
	ClarityScore   float64  `json:"clarity_score"`
	Analysis       string   `json:"analysis"`
	Issues         []string `json:"issues"`
}

// StructuralDimension combines the hook and CTA analyzers.
type StructuralDimension struct {
	Score float64    `json:"score"`
	Hook  HookResult `json:"hook"`
	CTA   CTAResult  `json:"cta"`
}

// VisualDimension combines the cut-frequency and saliency analyzers.
type VisualDimension struct {
	Score        float64            `json:"score"`
	CutFrequency CutFrequencyResult `json:"cut_frequency"`
	Saliency     SaliencyResult     `json:"saliency"`
}

// Dimensions groups both scored dimensions.
type Dimensions struct {
	Structural StructuralDimension `json:"structural"`
	Visual     VisualDimension     `json:"visual"`
}

// Severity ranks an issue by the score of the analyzer that raised it.
type Severity string

// Severity levels, most severe first.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort position of the severity (high first).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Issue is a single actionable problem attributed to an analyzer.
type Issue struct {
	Dimension string   `json:"dimension"`
	Analyzer  string   `json:"analyzer"`
	Severity  Severity `json:"severity"`
	Issue     string   `json:"issue"`
	Timestamp *float64 `json:"timestamp"` // set only by analyzers that locate the problem in time
	Score     float64  `json:"score"`
}

// Grade is the letter category derived from the overall score.
type Grade string

// Grades, best first.
const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
)

// EvaluationResult is the rule-based verdict for one video.
type EvaluationResult struct {
	OverallScore float64    `json:"overall_score"`
	Grade        Grade      `json:"grade"`
	Dimensions   Dimensions `json:"dimensions"`
	Issues       []Issue    `json:"issues"`
	Suggestions  []string   `json:"suggestions"`
}

// Report is a persisted analysis run: the rule verdict plus optional AI critique.
type Report struct {
	ID           string            `json:"id"`
	VideoID      string            `json:"video_id"`
	CreatedAt    time.Time         `json:"created_at"`
	Evaluation   *EvaluationResult `json:"evaluation"`
	AIEvaluation *AIEvaluation     `json:"ai_evaluation,omitempty"`
}
