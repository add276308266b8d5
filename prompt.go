package vidgrade

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt and response limits.
const (
	MaxPromptTranscript   = 500 // runes of transcript embedded in the prompt
	MaxPromptOnScreenText = 200 // runes of on-screen text embedded in the prompt
	MaxFallbackSummary    = 200 // runes of raw model text kept as summary when parsing fails
)

// SeeRawResponse is the list placeholder used when the model reply could not be decoded.
const SeeRawResponse = "详见完整响应"

// DegradedPrefix starts the summary of every evaluation built from an error.
const DegradedPrefix = "AI 评估出错: "

// BuildCritiquePrompt renders the shared critique prompt. It embeds truncated
// transcript and on-screen text plus the rule-based sub-scores, and asks for a
// JSON object with summary, strengths, weaknesses and recommendations.
func BuildCritiquePrompt(transcript, onScreenText string, eval *EvaluationResult) string {
	if eval == nil {
		eval = &EvaluationResult{}
	}
	s := eval.Dimensions.Structural
	v := eval.Dimensions.Visual

	asr := Truncate(transcript, MaxPromptTranscript)
	if asr == "" {
		asr = "（未检测到语音）"
	}
	ocr := Truncate(onScreenText, MaxPromptOnScreenText)
	if ocr == "" {
		ocr = "（未检测到文字）"
	}

	var sb strings.Builder
	sb.WriteString("你是专业的短视频质量分析专家。请分析这个带货短视频的质量。\n\n")
	sb.WriteString("上面提供了3张关键帧图像（开头、中间、结尾），请结合以下数据进行综合评估：\n\n")

	sb.WriteString("## 视频文本内容\n")
	fmt.Fprintf(&sb, "**语音文字**: %s\n", asr)
	fmt.Fprintf(&sb, "**屏幕文字**: %s\n\n", ocr)

	sb.WriteString("## 自动化评分结果\n\n")
	fmt.Fprintf(&sb, "### 结构化分析（%.1f分）\n", s.Score)
	fmt.Fprintf(&sb, "- **黄金3秒**: %.1f分\n", s.Hook.Score)
	fmt.Fprintf(&sb, "  - 检测到: %t\n", s.Hook.Detected)
	fmt.Fprintf(&sb, "  - 类型: %s\n", s.Hook.HookType)
	fmt.Fprintf(&sb, "  - 内容: %s\n\n", s.Hook.Content)
	fmt.Fprintf(&sb, "- **CTA检测**: %.1f分\n", s.CTA.Score)
	fmt.Fprintf(&sb, "  - 检测到: %t\n", s.CTA.Detected)
	fmt.Fprintf(&sb, "  - 类型: %s\n\n", s.CTA.CTAType)

	fmt.Fprintf(&sb, "### 视觉动力学（%.1f分）\n", v.Score)
	fmt.Fprintf(&sb, "- **剪辑节奏**: %.1f分\n", v.CutFrequency.Score)
	fmt.Fprintf(&sb, "  - 平均镜头长度: %.2f秒\n", v.CutFrequency.AvgShotLength)
	fmt.Fprintf(&sb, "  - 切换次数: %d次\n\n", v.CutFrequency.TotalCuts)
	fmt.Fprintf(&sb, "- **视觉重心**: %.1f分\n", v.Saliency.Score)
	fmt.Fprintf(&sb, "  - 产品占比: %.1f%%\n", v.Saliency.AvgProductArea*100)
	fmt.Fprintf(&sb, "  - 中心度: %.2f\n\n", v.Saliency.CenterRatio)

	sb.WriteString(`## 请提供

1. **综合评价总结**（2-3句话）
2. **优势**（列出2-3个最突出的优点）
3. **劣势**（列出2-3个最需要改进的问题）
4. **改进建议**（给出3-5条具体、可执行的优化建议）

请以JSON格式返回：
{
  "summary": "综合评价...",
  "strengths": ["优点1", "优点2", "优点3"],
  "weaknesses": ["问题1", "问题2"],
  "recommendations": ["建议1", "建议2", "建议3"]
}
`)
	return sb.String()
}

// ParseCritique extracts the JSON object from free-form model text.
// The span from the first '{' to the last '}' is decoded; when that fails the
// raw text is kept as a truncated summary with placeholder list entries.
func ParseCritique(text string) *AIEvaluation {
	if body, ok := extractJSONObject(text); ok {
		var parsed struct {
			Summary         string   `json:"summary"`
			Strengths       []string `json:"strengths"`
			Weaknesses      []string `json:"weaknesses"`
			Recommendations []string `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(body), &parsed); err == nil {
			return &AIEvaluation{
				Summary:         parsed.Summary,
				Strengths:       nonNil(parsed.Strengths),
				Weaknesses:      nonNil(parsed.Weaknesses),
				Recommendations: nonNil(parsed.Recommendations),
				RawResponse:     text,
			}
		}
	}

	return &AIEvaluation{
		Summary:         Truncate(text, MaxFallbackSummary),
		Strengths:       []string{SeeRawResponse},
		Weaknesses:      []string{SeeRawResponse},
		Recommendations: []string{SeeRawResponse},
		RawResponse:     text,
	}
}

// DegradedEvaluation converts a failure into a well-formed AIEvaluation.
func DegradedEvaluation(where string, err error) *AIEvaluation {
	msg := err.Error()
	if where != "" {
		msg = where + ": " + msg
	}
	return &AIEvaluation{
		Summary:         DegradedPrefix + msg,
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
		RawResponse:     err.Error(),
	}
}

// Degraded reports whether e was built from a failure or from a model reply
// that could not be decoded.
func (e *AIEvaluation) Degraded() bool {
	return e.RawResponse == "" || strings.HasPrefix(e.Summary, DegradedPrefix) || e.Unparsed()
}

// Unparsed reports whether e carries the placeholder lists ParseCritique
// uses when the reply held no decodable JSON object.
func (e *AIEvaluation) Unparsed() bool {
	return len(e.Strengths) == 1 && e.Strengths[0] == SeeRawResponse
}

// UnavailableEvaluation is returned by evaluators that have no usable backend.
func UnavailableEvaluation(platform string) *AIEvaluation {
	return &AIEvaluation{
		Summary:         fmt.Sprintf("AI 评估功能未启用（%s 客户端未初始化）", platform),
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
	}
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
