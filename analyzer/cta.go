package analyzer

import (
	"strings"

	"github.com/fwojciec/vidgrade"
)

// CTA scoring constants.
const (
	CTADetectedScore = 100.0
	CTAMissingScore  = 0.0
	ClosingWindow    = 5.0 // seconds
)

// NoCTAText is the CTA content placeholder when nothing was detected.
const NoCTAText = "（未检测到行动指令）"

var ctaKeywords = []string{
	// Chinese
	"点击", "购买", "下单", "立即", "马上",
	"抢购", "秒杀", "优惠", "折扣", "领取",
	"关注", "评论", "转发", "分享", "收藏",
	// English
	"click", "buy", "shop", "order", "get",
	"link", "bio", "now", "today", "limited",
}

// CTA detects a closing call to action.
type CTA struct{}

// NewCTA creates a CTA detector.
func NewCTA() *CTA {
	return &CTA{}
}

// Analyze detects a call to action in the closing window. The score is
// binary: 100 when any signal is present, 0 otherwise.
func (c *CTA) Analyze(transcript, onScreenText string, duration float64, hasButton bool) vidgrade.CTAResult {
	transcriptKeywords := matchKeywords(transcript)
	onScreenKeywords := matchKeywords(onScreenText)
	hasAudio := len(transcriptKeywords) > 0
	hasText := len(onScreenKeywords) > 0
	detected := hasAudio || hasText || hasButton

	// Precedence: audio > visual button > on-screen text.
	ctaType := vidgrade.CTANone
	switch {
	case hasAudio:
		ctaType = vidgrade.CTAAudio
	case hasButton:
		ctaType = vidgrade.CTAVisual
	case hasText:
		ctaType = vidgrade.CTAText
	}

	score := CTAMissingScore
	issues := []string{}
	if detected {
		score = CTADetectedScore
	} else {
		issues = append(issues,
			"视频结尾缺少明确的行动指令（CTA）",
			"建议添加：点击购买、关注账号等引导语",
		)
	}

	content := NoCTAText
	switch {
	case hasAudio && transcript != "":
		content = vidgrade.Truncate(transcript, snippetLength)
	case hasText && onScreenText != "":
		content = vidgrade.Truncate(onScreenText, snippetLength)
	}

	return vidgrade.CTAResult{
		Score:         score,
		Detected:      detected,
		CTAType:       ctaType,
		Content:       content,
		Timestamp:     vidgrade.Round(max(0, duration-ClosingWindow), 1),
		HasAudioCTA:   hasAudio,
		HasVisualCTA:  hasButton,
		HasTextCTA:    hasText,
		KeywordsFound: union(transcriptKeywords, onScreenKeywords),
		Issues:        issues,
	}
}

func matchKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range ctaKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := []string{}
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
