// Package pipeline scores one video end to end: it cuts the opening and
// closing windows out of extracted features, runs the four analyzers
// concurrently, aggregates them and optionally attaches an AI critique.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/analyzer"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Window bounds, in seconds and runes.
const (
	OpeningWindow       = 3.0
	ClosingWindow       = analyzer.ClosingWindow
	OnScreenWindowRunes = 100
	SaturationScale     = 100.0
)

// IDPrefix prefixes every report id.
const IDPrefix = "res_"

var (
	// ErrEvaluationInProgress is returned when the same video is already
	// being scored.
	ErrEvaluationInProgress = errors.New("evaluation already in progress")
	// ErrNoFeatures is returned when Run is called without features.
	ErrNoFeatures = errors.New("no features")
)

// KeyFrameLoader reads the images at paths. Unreadable paths are skipped.
type KeyFrameLoader func(paths []string) []vidgrade.KeyFrame

// Pipeline runs analyses. It is safe for concurrent use.
type Pipeline struct {
	evaluator  vidgrade.AIEvaluator
	store      vidgrade.ReportStore
	loadFrames KeyFrameLoader
	logger     zerolog.Logger
	now        func() time.Time
	newID      func() string

	hook     *analyzer.Hook
	cta      *analyzer.CTA
	cut      *analyzer.CutFrequency
	saliency *analyzer.Saliency

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEvaluator enables AI critique.
func WithEvaluator(e vidgrade.AIEvaluator) Option {
	return func(p *Pipeline) {
		p.evaluator = e
	}
}

// WithStore persists every report.
func WithStore(s vidgrade.ReportStore) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithKeyFrameLoader sets how key frame paths are turned into images.
func WithKeyFrameLoader(fn KeyFrameLoader) Option {
	return func(p *Pipeline) {
		p.loadFrames = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithIDGenerator sets the report id generator.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		p.newID = fn
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:   zerolog.Nop(),
		now:      time.Now,
		newID:    NewReportID,
		hook:     analyzer.NewHook(),
		cta:      analyzer.NewCTA(),
		cut:      analyzer.NewCutFrequency(),
		saliency: analyzer.NewSaliency(),
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewReportID returns "res_" followed by 12 hex characters.
func NewReportID() string {
	return IDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Windows are the feature slices each analyzer sees.
type Windows struct {
	OpeningTranscript string
	OpeningOnScreen   string
	ClosingTranscript string
	ClosingOnScreen   string
	VisualChange      float64
	Duration          float64
}

// CutWindows derives the opening and closing windows from features.
func CutWindows(f *vidgrade.Features) Windows {
	duration := f.TotalDuration()
	ocr := []rune(f.OnScreenText)

	opening := ocr
	if len(opening) > OnScreenWindowRunes {
		opening = opening[:OnScreenWindowRunes]
	}
	closing := ocr
	if len(closing) > OnScreenWindowRunes {
		closing = closing[len(closing)-OnScreenWindowRunes:]
	}

	return Windows{
		OpeningTranscript: vidgrade.TextInRange(f.Transcript, 0, OpeningWindow),
		OpeningOnScreen:   string(opening),
		ClosingTranscript: vidgrade.TextInRange(f.Transcript, max(0, duration-ClosingWindow), duration),
		ClosingOnScreen:   string(closing),
		VisualChange:      averageSaturation(f.Frames) / SaturationScale,
		Duration:          duration,
	}
}

func averageSaturation(frames []vidgrade.FrameMetrics) float64 {
	if len(frames) == 0 {
		return 0
	}
	var sum float64
	for _, fm := range frames {
		sum += fm.Saturation
	}
	return sum / float64(len(frames))
}

// Run scores the video described by f and returns its report. The rule-based
// evaluation always completes; AI critique failures are carried inside the
// report. Store failures are returned as errors.
func (p *Pipeline) Run(ctx context.Context, f *vidgrade.Features) (*vidgrade.Report, error) {
	if f == nil {
		return nil, ErrNoFeatures
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.acquire(f.VideoID) {
		return nil, fmt.Errorf("pipeline: video %q: %w", f.VideoID, ErrEvaluationInProgress)
	}
	defer p.release(f.VideoID)

	log := p.logger.With().Str("video_id", f.VideoID).Logger()
	w := CutWindows(f)

	var (
		hook     vidgrade.HookResult
		cta      vidgrade.CTAResult
		cut      vidgrade.CutFrequencyResult
		saliency vidgrade.SaliencyResult
	)
	var g errgroup.Group
	g.Go(func() error {
		hook = p.hook.Analyze(w.OpeningTranscript, w.OpeningOnScreen, w.VisualChange)
		return nil
	})
	g.Go(func() error {
		cta = p.cta.Analyze(w.ClosingTranscript, w.ClosingOnScreen, w.Duration, f.ButtonIcon)
		return nil
	})
	g.Go(func() error {
		cut = p.cut.Analyze(f.Shots, w.Duration)
		return nil
	})
	g.Go(func() error {
		saliency = p.saliency.AnalyzeFrames(f.Frames)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Float64("score", hook.Score).Bool("detected", hook.Detected).Str("type", hook.HookType).Msg("hook analyzed")
	log.Info().Float64("score", cta.Score).Bool("detected", cta.Detected).Str("type", cta.CTAType).Msg("cta analyzed")
	log.Info().Float64("score", cut.Score).Float64("asl", cut.AvgShotLength).Int("cuts", cut.TotalCuts).Msg("cut frequency analyzed")
	log.Info().Float64("score", saliency.Score).Str("focus", saliency.FocusQuality).Msg("saliency analyzed")

	eval := vidgrade.Evaluate(hook, cta, cut, saliency)
	log.Info().Float64("overall", eval.OverallScore).Str("grade", string(eval.Grade)).Int("issues", len(eval.Issues)).Msg("evaluation complete")

	report := &vidgrade.Report{
		ID:         p.newID(),
		VideoID:    f.VideoID,
		CreatedAt:  p.now().UTC(),
		Evaluation: eval,
	}

	if p.evaluator != nil {
		report.AIEvaluation = p.evaluator.Evaluate(ctx, vidgrade.CritiqueInput{
			KeyFrames:    p.keyFrames(f),
			Transcript:   f.TranscriptText(),
			OnScreenText: f.OnScreenText,
			Evaluation:   eval,
		})
	}

	if p.store != nil {
		if err := p.store.Save(ctx, report); err != nil {
			log.Error().Err(err).Str("report_id", report.ID).Msg("failed to save report")
			return report, fmt.Errorf("pipeline: save report: %w", err)
		}
	}

	return report, nil
}

func (p *Pipeline) keyFrames(f *vidgrade.Features) []vidgrade.KeyFrame {
	if p.loadFrames == nil || len(f.KeyFrames) == 0 {
		return nil
	}
	return p.loadFrames(vidgrade.SelectKeyFrames(f.KeyFrames))
}

func (p *Pipeline) acquire(videoID string) bool {
	if videoID == "" {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[videoID]; busy {
		return false
	}
	p.inFlight[videoID] = struct{}{}
	return true
}

func (p *Pipeline) release(videoID string) {
	if videoID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, videoID)
}
