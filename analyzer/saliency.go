package analyzer

import (
	"fmt"
	"strings"

	"github.com/fwojciec/vidgrade"
)

// Saliency scoring constants.
const (
	IdealAreaMin      = 0.2
	IdealAreaMax      = 0.5
	SmallAreaFloor    = 50.0
	LargeAreaFloor    = 70.0
	BlurThreshold     = 100.0 // clarity below this marks a blurred frame
	DefaultClarity    = 80.0  // clarity sub-score when no samples exist
	MinCenterRatio    = 0.6
	CenteredRatio     = 0.7
	MaxBlurFraction   = 0.2
	MinorBlurFraction = 0.1
	AreaWeight        = 0.4
	CenterWeight      = 0.4
	ClarityWeight     = 0.2
)

// NoProductAnalysis explains the neutral score given when no product was detected.
const NoProductAnalysis = "未能检测到产品"

// Saliency scores how prominently and sharply the product is framed.
type Saliency struct{}

// NewSaliency creates a Saliency analyzer.
func NewSaliency() *Saliency {
	return &Saliency{}
}

// AnalyzeFrames splits per-frame metrics into series and scores them.
// Every frame contributes a clarity sample, so BlurFrames holds frame indices.
func (s *Saliency) AnalyzeFrames(frames []vidgrade.FrameMetrics) vidgrade.SaliencyResult {
	areas := make([]float64, 0, len(frames))
	centers := make([]float64, 0, len(frames))
	clarity := make([]float64, 0, len(frames))
	for _, f := range frames {
		areas = append(areas, f.ProductAreaRatio)
		centers = append(centers, f.CenterRatio)
		clarity = append(clarity, f.ClarityScore)
	}
	return s.Analyze(areas, centers, clarity)
}

// Analyze scores per-frame product-area ratios, center ratios and clarity
// scores. An empty area series yields a neutral score rather than an error.
func (s *Saliency) Analyze(areas, centers, clarity []float64) vidgrade.SaliencyResult {
	if len(areas) == 0 {
		return vidgrade.SaliencyResult{
			Score:        NeutralScore,
			FocusQuality: vidgrade.FocusUnknown,
			BlurFrames:   []int{},
			Analysis:     NoProductAnalysis,
			Issues:       []string{},
		}
	}

	avgArea := mean(areas)
	avgCenter := mean(centers)

	blurFrames := []int{}
	for i, c := range clarity {
		if c < BlurThreshold {
			blurFrames = append(blurFrames, i)
		}
	}

	areaScore := scoreArea(avgArea)
	centerScore := avgCenter * 100
	clarityScore := DefaultClarity
	if len(clarity) > 0 {
		clarityScore = max(0, 100-float64(len(blurFrames))/float64(len(clarity))*100)
	}
	total := areaScore*AreaWeight + centerScore*CenterWeight + clarityScore*ClarityWeight

	issues := []string{}
	switch {
	case avgArea < IdealAreaMin:
		issues = append(issues, fmt.Sprintf("产品在画面中过小（%.1f%%），建议增大产品占比", avgArea*100))
	case avgArea > IdealAreaMax:
		issues = append(issues, fmt.Sprintf("产品占比过大（%.1f%%），可能影响整体观感", avgArea*100))
	}
	if avgCenter < MinCenterRatio {
		issues = append(issues, "产品位置偏离中心，建议调整构图")
	}
	if float64(len(blurFrames)) > float64(len(clarity))*MaxBlurFraction {
		issues = append(issues, fmt.Sprintf("%d个帧存在模糊问题，建议检查对焦", len(blurFrames)))
	}

	return vidgrade.SaliencyResult{
		Score:          vidgrade.Round(total, 1),
		AvgProductArea: vidgrade.Round(avgArea, 3),
		CenterRatio:    vidgrade.Round(avgCenter, 3),
		FocusQuality:   focusQuality(clarityScore),
		BlurFrames:     blurFrames,
		AreaScore:      vidgrade.Round(areaScore, 1),
		CenterScore:    vidgrade.Round(centerScore, 1),
		ClarityScore:   vidgrade.Round(clarityScore, 1),
		Analysis:       saliencyAnalysis(avgArea, avgCenter, len(blurFrames), len(clarity)),
		Issues:         issues,
	}
}

func scoreArea(area float64) float64 {
	switch {
	case area >= IdealAreaMin && area <= IdealAreaMax:
		return 100
	case area < IdealAreaMin:
		return max(SmallAreaFloor, area/IdealAreaMin*100)
	default:
		return max(LargeAreaFloor, 100-(area-IdealAreaMax)*100)
	}
}

func focusQuality(clarity float64) string {
	switch {
	case clarity >= 90:
		return vidgrade.FocusExcellent
	case clarity >= 70:
		return vidgrade.FocusGood
	case clarity >= 50:
		return vidgrade.FocusFair
	default:
		return vidgrade.FocusPoor
	}
}

func saliencyAnalysis(area, center float64, blurCount, totalFrames int) string {
	var parts []string

	switch {
	case area >= IdealAreaMin && area <= IdealAreaMax:
		parts = append(parts, fmt.Sprintf("产品占比适中（%.1f%%）", area*100))
	case area < IdealAreaMin:
		parts = append(parts, fmt.Sprintf("产品偏小（%.1f%%）", area*100))
	default:
		parts = append(parts, fmt.Sprintf("产品占比较大（%.1f%%）", area*100))
	}

	if center >= CenteredRatio {
		parts = append(parts, "位置居中")
	} else {
		parts = append(parts, "位置偏离中心")
	}

	switch {
	case blurCount == 0:
		parts = append(parts, "画面清晰")
	case float64(blurCount) <= float64(totalFrames)*MinorBlurFraction:
		parts = append(parts, "整体清晰")
	default:
		parts = append(parts, fmt.Sprintf("存在%d帧模糊", blurCount))
	}

	return strings.Join(parts, "，")
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
