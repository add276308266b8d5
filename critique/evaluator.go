// Package critique provides the AIEvaluator shell shared by every
// multimodal backend: frame preparation, prompt construction, one bounded
// backend call and best-effort parsing, with every failure degraded into a
// well-formed AIEvaluation.
package critique

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/vidgrade"
	"github.com/rs/zerolog"
)

// Compile-time interface verification.
var _ vidgrade.AIEvaluator = (*Evaluator)(nil)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 60 * time.Second

// Backend is the provider-specific part of an evaluator: it turns the
// shared prompt and prepared frames into a provider payload, calls the
// provider and returns the model's free-form text.
type Backend interface {
	// Name returns the platform identifier, e.g. "claude".
	Name() string
	// Model returns the model the backend calls.
	Model() string
	// Complete sends frames and prompt as a single user message.
	Complete(ctx context.Context, frames []vidgrade.KeyFrame, prompt string) (string, error)
}

// Evaluator implements vidgrade.AIEvaluator on top of a Backend.
type Evaluator struct {
	backend   Backend
	available bool
	timeout   time.Duration
	logger    zerolog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout sets the timeout for a backend call.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// WithAvailable overrides availability; an unavailable evaluator never calls
// its backend.
func WithAvailable(ok bool) Option {
	return func(e *Evaluator) {
		e.available = ok
	}
}

// New creates an Evaluator. A nil backend yields an unavailable evaluator.
func New(backend Backend, opts ...Option) *Evaluator {
	e := &Evaluator{
		backend:   backend,
		available: backend != nil,
		timeout:   DefaultTimeout,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether the evaluator will call its backend.
func (e *Evaluator) Available() bool {
	return e.available && e.backend != nil
}

// Platform returns the backend's platform identifier.
func (e *Evaluator) Platform() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Name()
}

// Model returns the backend's model identifier.
func (e *Evaluator) Model() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Model()
}

// Evaluate critiques the video. It never fails: unavailability, transport
// errors and malformed replies all come back as a degraded AIEvaluation.
func (e *Evaluator) Evaluate(ctx context.Context, input vidgrade.CritiqueInput) *vidgrade.AIEvaluation {
	if !e.Available() {
		e.logger.Warn().Str("platform", e.Platform()).Msg("ai evaluator unavailable, skipping critique")
		return vidgrade.UnavailableEvaluation(e.Platform())
	}

	log := e.logger.With().Str("platform", e.backend.Name()).Str("model", e.backend.Model()).Logger()

	frames := PrepareFrames(input.KeyFrames, log)
	prompt := vidgrade.BuildCritiquePrompt(input.Transcript, input.OnScreenText, input.Evaluation)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	log.Info().Int("frames", len(frames)).Msg("requesting ai critique")
	text, err := e.backend.Complete(ctx, frames, prompt)
	if err != nil {
		log.Error().Err(err).Msg("ai critique failed")
		return vidgrade.DegradedEvaluation(e.backend.Name()+" API call failed", err)
	}

	result := vidgrade.ParseCritique(text)
	log.Info().Bool("structured", !result.Unparsed()).Msg("ai critique completed")
	return result
}

// PrepareFrames keeps at most vidgrade.MaxKeyFrames usable frames. Frames
// without data or whose content is not an image are skipped.
func PrepareFrames(frames []vidgrade.KeyFrame, log zerolog.Logger) []vidgrade.KeyFrame {
	out := make([]vidgrade.KeyFrame, 0, vidgrade.MaxKeyFrames)
	for _, f := range frames {
		if len(out) == vidgrade.MaxKeyFrames {
			break
		}
		if len(f.Data) == 0 {
			log.Warn().Str("frame", f.Name).Msg("skipping empty key frame")
			continue
		}
		if f.MIMEType == "" {
			f.MIMEType = http.DetectContentType(f.Data)
		}
		if !strings.HasPrefix(f.MIMEType, "image/") {
			log.Warn().Str("frame", f.Name).Str("mime", f.MIMEType).Msg("skipping non-image key frame")
			continue
		}
		out = append(out, f)
	}
	return out
}
