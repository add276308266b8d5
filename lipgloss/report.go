package lipgloss

import (
	"fmt"
	"io"
	"math"
	"strings"

	lipglosslib "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fwojciec/vidgrade"
	"github.com/muesli/termenv"
)

// BarWidth is the width of a score bar in cells.
const BarWidth = 20

// Renderer renders reports as styled terminal text.
type Renderer struct {
	r       *lipglosslib.Renderer
	palette Palette
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTheme sets the theme.
func WithTheme(t *Theme) RendererOption {
	return func(r *Renderer) {
		r.palette = t.Palette()
	}
}

// WithColorProfile forces the color profile instead of detecting it from
// the output. termenv.Ascii disables colors.
func WithColorProfile(p termenv.Profile) RendererOption {
	return func(r *Renderer) {
		r.r.SetColorProfile(p)
	}
}

// NewRenderer creates a Renderer that detects colors from w.
func NewRenderer(w io.Writer, opts ...RendererOption) *Renderer {
	r := &Renderer{
		r:       lipglosslib.NewRenderer(w),
		palette: DefaultTheme().Palette(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) style(color string) lipglosslib.Style {
	return r.r.NewStyle().Foreground(lipglosslib.Color(color))
}

// Render returns the full report.
func (r *Renderer) Render(report *vidgrade.Report) string {
	var sb strings.Builder

	title := r.style(r.palette.Title).Bold(true)
	muted := r.style(r.palette.Muted)
	fmt.Fprintf(&sb, "%s  %s\n", title.Render("视频质量报告"), muted.Render(report.ID))
	if report.VideoID != "" {
		fmt.Fprintf(&sb, "%s\n", muted.Render("视频: "+report.VideoID))
	}
	if !report.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "%s\n", muted.Render("时间: "+report.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString("\n")

	if eval := report.Evaluation; eval != nil {
		sb.WriteString(r.RenderEvaluation(eval))
	}
	if ai := report.AIEvaluation; ai != nil {
		sb.WriteString("\n")
		sb.WriteString(r.RenderAIEvaluation(ai))
	}
	return sb.String()
}

// RenderEvaluation returns the rule-based part of a report.
func (r *Renderer) RenderEvaluation(eval *vidgrade.EvaluationResult) string {
	var sb strings.Builder

	heading := r.style(r.palette.Accent).Bold(true)
	grade := r.style(r.scoreColor(eval.OverallScore)).Bold(true)

	fmt.Fprintf(&sb, "总分 %s  等级 %s\n\n",
		grade.Render(fmt.Sprintf("%.1f", eval.OverallScore)),
		grade.Render(string(eval.Grade)))

	s := eval.Dimensions.Structural
	fmt.Fprintf(&sb, "%s %s\n", heading.Render(padRight("结构化分析", 12)), r.scoreLine(s.Score))
	fmt.Fprintf(&sb, "  %s %s  %s\n", padRight("黄金3秒", 10), r.scoreLine(s.Hook.Score), r.flag(s.Hook.Detected, s.Hook.HookType))
	fmt.Fprintf(&sb, "  %s %s  %s\n", padRight("CTA", 10), r.scoreLine(s.CTA.Score), r.flag(s.CTA.Detected, s.CTA.CTAType))

	v := eval.Dimensions.Visual
	fmt.Fprintf(&sb, "%s %s\n", heading.Render(padRight("视觉动力学", 12)), r.scoreLine(v.Score))
	fmt.Fprintf(&sb, "  %s %s  %s\n", padRight("剪辑节奏", 10), r.scoreLine(v.CutFrequency.Score),
		r.style(r.palette.Muted).Render(fmt.Sprintf("ASL %.2fs, %d cuts", v.CutFrequency.AvgShotLength, v.CutFrequency.TotalCuts)))
	fmt.Fprintf(&sb, "  %s %s  %s\n", padRight("视觉重心", 10), r.scoreLine(v.Saliency.Score),
		r.style(r.palette.Muted).Render(v.Saliency.FocusQuality))

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s\n", heading.Render(fmt.Sprintf("问题 (%d)", len(eval.Issues))))
	if len(eval.Issues) == 0 {
		fmt.Fprintf(&sb, "  %s\n", r.style(r.palette.Muted).Render("无"))
	}
	for _, issue := range eval.Issues {
		tag := r.style(r.severityColor(issue.Severity)).Bold(true).Render(padRight(string(issue.Severity), 6))
		where := issue.Analyzer
		if issue.Timestamp != nil {
			where = fmt.Sprintf("%s@%.1fs", where, *issue.Timestamp)
		}
		fmt.Fprintf(&sb, "  %s %s %s\n", tag, r.style(r.palette.Muted).Render(padRight(where, 14)), issue.Issue)
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s\n", heading.Render("建议"))
	for _, s := range eval.Suggestions {
		fmt.Fprintf(&sb, "  • %s\n", s)
	}
	return sb.String()
}

// RenderAIEvaluation returns the AI critique section.
func (r *Renderer) RenderAIEvaluation(ai *vidgrade.AIEvaluation) string {
	var sb strings.Builder
	heading := r.style(r.palette.Accent).Bold(true)

	fmt.Fprintf(&sb, "%s\n", heading.Render("AI 评估"))
	fmt.Fprintf(&sb, "  %s\n", ai.Summary)
	r.list(&sb, "优势", ai.Strengths, r.palette.Good)
	r.list(&sb, "劣势", ai.Weaknesses, r.palette.Poor)
	r.list(&sb, "改进建议", ai.Recommendations, r.palette.Accent)
	return sb.String()
}

func (r *Renderer) list(sb *strings.Builder, label string, items []string, color string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s\n", r.style(color).Bold(true).Render(label))
	for _, item := range items {
		fmt.Fprintf(sb, "    • %s\n", item)
	}
}

func (r *Renderer) scoreLine(score float64) string {
	return fmt.Sprintf("%s %s", r.Bar(score), r.style(r.scoreColor(score)).Render(fmt.Sprintf("%5.1f", score)))
}

func (r *Renderer) flag(detected bool, kind string) string {
	if detected {
		return r.style(r.palette.Good).Render("✓ " + kind)
	}
	return r.style(r.palette.Poor).Render("✗ " + kind)
}

// RenderList returns a table with one row per report.
func (r *Renderer) RenderList(reports []*vidgrade.Report) string {
	if len(reports) == 0 {
		return r.style(r.palette.Muted).Render("暂无报告") + "\n"
	}
	header := r.style(r.palette.Accent).Bold(true).Padding(0, 1)
	cell := r.r.NewStyle().Foreground(lipglosslib.Color(r.palette.Foreground)).Padding(0, 1)

	t := table.New().
		Border(lipglosslib.NormalBorder()).
		BorderStyle(r.style(r.palette.Muted)).
		Headers("ID", "视频", "总分", "等级", "时间").
		StyleFunc(func(row, _ int) lipglosslib.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, report := range reports {
		score, grade := "-", "-"
		if eval := report.Evaluation; eval != nil {
			score = fmt.Sprintf("%.1f", eval.OverallScore)
			grade = string(eval.Grade)
		}
		created := ""
		if !report.CreatedAt.IsZero() {
			created = report.CreatedAt.Format("2006-01-02 15:04")
		}
		t.Row(report.ID, report.VideoID, score, grade, created)
	}
	return t.String() + "\n"
}

// Bar renders score as a BarWidth-cell bar.
func (r *Renderer) Bar(score float64) string {
	filled := FilledCells(score)
	return r.style(r.scoreColor(score)).Render(strings.Repeat("█", filled)) +
		r.style(r.palette.BarEmpty).Render(strings.Repeat("░", BarWidth-filled))
}

// FilledCells returns how many bar cells a score fills.
func FilledCells(score float64) int {
	n := int(math.Round(score / 100 * BarWidth))
	return min(BarWidth, max(0, n))
}

func (r *Renderer) scoreColor(score float64) string {
	switch {
	case score >= 80:
		return r.palette.Good
	case score >= 60:
		return r.palette.Fair
	default:
		return r.palette.Poor
	}
}

func (r *Renderer) severityColor(s vidgrade.Severity) string {
	switch s {
	case vidgrade.SeverityHigh:
		return r.palette.High
	case vidgrade.SeverityMedium:
		return r.palette.Medium
	default:
		return r.palette.Low
	}
}

// padRight pads s with spaces to n terminal cells.
func padRight(s string, n int) string {
	w := lipglosslib.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}
