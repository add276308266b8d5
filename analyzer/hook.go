// Package analyzer scores the structural and visual dimensions of a video
// from already-extracted features. Every analyzer is a pure function of its
// inputs and safe for concurrent use.
package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/vidgrade"
)

// Hook scoring constants.
const (
	HookStrongTextScore = 50.0
	HookWeakTextScore   = 20.0
	HookMaxVisualScore  = 50.0
	HookVisualFactor    = 20.0
	HookDetectThreshold = 60.0
	HookIssueFloor      = 30.0

	snippetLength  = 50
	minSnippetText = 5
)

// NoHookText is the hook content placeholder when no text was found.
const NoHookText = "（未检测到文字内容）"

var conflictWords = []string{
	"竟然", "没想到", "震惊", "你知道吗", "不要买",
	"千万别", "绝对不能", "必须", "警惕", "揭秘",
}

var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.*[吗?？]$`),
	regexp.MustCompile(`^为什么`),
	regexp.MustCompile(`^怎么`),
	regexp.MustCompile(`^如何`),
	regexp.MustCompile(`^什么`),
}

// Hook scores the attention-grabbing strength of the opening window.
type Hook struct{}

// NewHook creates a Hook analyzer.
func NewHook() *Hook {
	return &Hook{}
}

// Analyze scores the opening window from its transcript, on-screen text and
// visual-change magnitude (average saturation scaled to a small positive range).
func (h *Hook) Analyze(transcript, onScreenText string, visualChange float64) vidgrade.HookResult {
	conflictInTranscript := containsAny(transcript, conflictWords)
	conflictOnScreen := containsAny(onScreenText, conflictWords)
	hasConflict := conflictInTranscript || conflictOnScreen
	hasQuestion := isQuestion(transcript)

	textScore := HookWeakTextScore
	hookType := vidgrade.HookVisual
	switch {
	case hasConflict:
		textScore = HookStrongTextScore
		hookType = vidgrade.HookConflict
	case hasQuestion:
		textScore = HookStrongTextScore
		hookType = vidgrade.HookQuestion
	}

	visualScore := min(HookMaxVisualScore, max(0, visualChange*HookVisualFactor))
	total := textScore + visualScore
	detected := total > HookDetectThreshold

	issues := []string{}
	if !detected {
		if textScore < HookIssueFloor {
			issues = append(issues, "开头文案缺乏冲击力，建议使用疑问句或冲突感词汇")
		}
		if visualScore < HookIssueFloor {
			issues = append(issues, "开头画面变化不够，建议增加视觉冲击")
		}
	}

	return vidgrade.HookResult{
		Score:            vidgrade.Round(total, 1),
		Detected:         detected,
		HookType:         hookType,
		Content:          hookContent(transcript, onScreenText, conflictInTranscript || hasQuestion, conflictOnScreen),
		HasConflict:      hasConflict,
		HasQuestion:      hasQuestion,
		SaturationChange: vidgrade.Round(visualChange, 2),
		TextScore:        textScore,
		VisualScore:      vidgrade.Round(visualScore, 1),
		Issues:           issues,
	}
}

func isQuestion(text string) bool {
	text = strings.TrimSpace(text)
	for _, re := range questionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// hookContent prefers the text source that triggered detection, then any
// transcript or on-screen text long enough to be meaningful.
func hookContent(transcript, onScreenText string, transcriptTriggered, onScreenTriggered bool) string {
	switch {
	case transcriptTriggered:
		return vidgrade.Truncate(transcript, snippetLength)
	case onScreenTriggered:
		return vidgrade.Truncate(onScreenText, snippetLength)
	case utf8.RuneCountInString(transcript) > minSnippetText:
		return vidgrade.Truncate(transcript, snippetLength)
	case utf8.RuneCountInString(onScreenText) > minSnippetText:
		return vidgrade.Truncate(onScreenText, snippetLength)
	default:
		return NoHookText
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
