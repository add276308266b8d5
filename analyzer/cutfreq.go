package analyzer

import (
	"fmt"

	"github.com/fwojciec/vidgrade"
)

// Cut-frequency scoring constants.
const (
	IdealASLMin       = 1.5 // seconds
	IdealASLMax       = 3.0 // seconds
	SlowShotThreshold = 5.0 // seconds
	FastFloor         = 70.0
	FastPenalty       = 20.0 // points per second below IdealASLMin
	SlowFloor         = 50.0
	SlowPenalty       = 15.0 // points per second above IdealASLMax
	SlowShotPenalty   = 5.0
	NeutralScore      = 50.0
	CutIssueThreshold = 70.0
	MinCuts           = 5
)

// NoShotsAnalysis explains the neutral score given when no shots were detected.
const NoShotsAnalysis = "无法检测到场景切换"

// CutFrequency scores editing pace from shot boundaries.
type CutFrequency struct{}

// NewCutFrequency creates a CutFrequency analyzer.
func NewCutFrequency() *CutFrequency {
	return &CutFrequency{}
}

// Analyze scores the pace of the given ordered shot list.
// An empty list yields a neutral score rather than an error.
func (c *CutFrequency) Analyze(shots []vidgrade.Shot, totalDuration float64) vidgrade.CutFrequencyResult {
	if len(shots) == 0 {
		return vidgrade.CutFrequencyResult{
			Score:     NeutralScore,
			SlowShots: []vidgrade.SlowShot{},
			Analysis:  NoShotsAnalysis,
			Issues:    []string{},
		}
	}

	var sum float64
	slow := []vidgrade.SlowShot{}
	for i, shot := range shots {
		d := shot.Duration()
		sum += d
		if d >= SlowShotThreshold {
			slow = append(slow, vidgrade.SlowShot{
				ShotNumber: i + 1,
				Start:      vidgrade.Round(shot.Start, 1),
				Duration:   vidgrade.Round(d, 1),
			})
		}
	}
	asl := sum / float64(len(shots))
	totalCuts := len(shots) - 1
	score := cutScore(asl, len(slow))

	issues := []string{}
	if score < CutIssueThreshold {
		if asl > IdealASLMax {
			issues = append(issues, fmt.Sprintf("平均镜头长度过长（%.1f秒），节奏拖沓", asl))
		}
		if len(slow) > 0 {
			issues = append(issues, fmt.Sprintf("检测到%d个超长镜头，建议增加剪辑", len(slow)))
		}
		if totalCuts < MinCuts {
			issues = append(issues, "镜头切换次数过少，建议增加剪辑密度")
		}
	}

	return vidgrade.CutFrequencyResult{
		Score:         vidgrade.Round(score, 1),
		AvgShotLength: vidgrade.Round(asl, 2),
		TotalCuts:     totalCuts,
		SlowShots:     slow,
		Analysis:      cutAnalysis(asl, totalCuts, len(slow)),
		Issues:        issues,
	}
}

func cutScore(asl float64, slowShots int) float64 {
	var base float64
	switch {
	case asl >= IdealASLMin && asl <= IdealASLMax:
		base = 100
	case asl < IdealASLMin:
		base = max(FastFloor, 100-FastPenalty*(IdealASLMin-asl))
	default:
		base = max(SlowFloor, 100-SlowPenalty*(asl-IdealASLMax))
	}
	return max(0, base-SlowShotPenalty*float64(slowShots))
}

func cutAnalysis(asl float64, totalCuts, slowShots int) string {
	pace := "节奏良好"
	switch {
	case asl < IdealASLMin:
		pace = "节奏偏快"
	case asl > IdealASLMax:
		pace = "节奏偏慢"
	}

	analysis := fmt.Sprintf("%s，平均镜头长度%.1f秒，共%d次切换", pace, asl, totalCuts)
	if slowShots > 0 {
		analysis += fmt.Sprintf("，检测到%d个超长镜头", slowShots)
	}
	if asl > IdealASLMax {
		analysis += "，建议增加剪辑密度"
	}
	return analysis
}
