// Package vidgrade provides domain types for scoring short promotional videos.
//
// Features extracted upstream (speech transcript, on-screen text, shot
// boundaries, per-frame visual metrics) flow through four analyzers into a
// rule-based EvaluationResult, optionally enriched by an AIEvaluation from a
// multimodal LLM backend.
package vidgrade

import (
	"context"
	"strings"
)

// Segment is one timed piece of the speech transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Shot is a single shot between two cuts, in seconds.
type Shot struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the shot length in seconds.
func (s Shot) Duration() float64 {
	return s.End - s.Start
}

// FrameMetrics holds per-frame visual measurements for a sampled frame.
type FrameMetrics struct {
	ProductAreaRatio float64 `json:"product_area_ratio"` // [0,1] share of the frame covered by the product
	CenterRatio      float64 `json:"center_ratio"`       // [0,1] how centered the product is
	ClarityScore     float64 `json:"clarity_score"`      // Laplacian variance, higher is sharper
	Saturation       float64 `json:"saturation"`         // mean saturation, 0-255 scale
}

// Features is the already-extracted signal set for one video.
type Features struct {
	VideoID      string         `json:"video_id"`
	Duration     float64        `json:"duration"`                // seconds; 0 means derive from shots
	Transcript   []Segment      `json:"transcript"`              // ordered ASR segments
	OnScreenText string         `json:"onscreen_text"`           // deduplicated OCR text
	Shots        []Shot         `json:"shots"`                   // ordered, non-overlapping
	Frames       []FrameMetrics `json:"frames"`                  // one entry per sampled frame
	KeyFrames    []string       `json:"key_frames,omitempty"`    // image paths, in time order
	ButtonIcon   bool           `json:"button_icon,omitempty"`   // a CTA button was detected in the closing window
}

// TotalDuration returns the declared duration, or the sum of shot lengths
// when none was declared.
func (f Features) TotalDuration() float64 {
	if f.Duration > 0 {
		return f.Duration
	}
	var total float64
	for _, s := range f.Shots {
		total += s.Duration()
	}
	return total
}

// TranscriptText joins all segment texts with single spaces.
func (f Features) TranscriptText() string {
	texts := make([]string, 0, len(f.Transcript))
	for _, seg := range f.Transcript {
		texts = append(texts, seg.Text)
	}
	return strings.Join(texts, " ")
}

// TextInRange joins the text of every segment overlapping [start, end].
func TextInRange(segments []Segment, start, end float64) string {
	var texts []string
	for _, seg := range segments {
		if seg.End >= start && seg.Start <= end {
			texts = append(texts, seg.Text)
		}
	}
	return strings.Join(texts, " ")
}

// SelectKeyFrames picks the first, middle and last frame when at least three
// are available, otherwise returns all of them.
func SelectKeyFrames[T any](frames []T) []T {
	if len(frames) < 3 {
		return frames
	}
	return []T{frames[0], frames[len(frames)/2], frames[len(frames)-1]}
}

// AIEvaluator produces a narrative critique of a video.
// Implementations never fail: errors degrade into the returned AIEvaluation.
type AIEvaluator interface {
	// Evaluate critiques the video described by input.
	Evaluate(ctx context.Context, input CritiqueInput) *AIEvaluation
	// Available reports whether the evaluator can reach its backend.
	Available() bool
	// Platform returns the platform identifier the evaluator was built for.
	Platform() string
}

// ReportStore persists and retrieves analysis reports.
type ReportStore interface {
	Save(ctx context.Context, report *Report) error
	Find(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context) ([]*Report, error)
}

// FeatureLoader loads extracted feature sets from a source.
type FeatureLoader interface {
	Load(path string) ([]Features, error)
}

// ReportViewer displays reports interactively.
type ReportViewer interface {
	// View blocks until the user exits.
	View(ctx context.Context, reports []*Report) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Copy(content string) error
}
