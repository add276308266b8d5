// Package platform builds an AIEvaluator from a platform id.
package platform

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/claude"
	"github.com/fwojciec/vidgrade/critique"
	"github.com/fwojciec/vidgrade/gemini"
	"github.com/fwojciec/vidgrade/openai"
	"github.com/rs/zerolog"
)

// Platform identifiers.
const (
	Claude   = "claude"
	AIHubMix = "aihubmix"
	OpenAI   = "openai"
	Gemini   = "gemini"
)

// Default is used when no platform is configured.
const Default = Claude

// Defaults describes how a platform is configured when the caller leaves
// fields empty.
type Defaults struct {
	KeyEnv      string
	ModelEnv    string
	BaseURLEnv  string
	Model       string
	BaseURL     string
	Description string
}

var platforms = map[string]Defaults{
	Claude: {
		KeyEnv:      "ANTHROPIC_API_KEY",
		Model:       claude.DefaultModel,
		BaseURL:     claude.DefaultBaseURL,
		Description: "Anthropic Messages API",
	},
	AIHubMix: {
		KeyEnv:      "AIHUBMIX_API_KEY",
		ModelEnv:    "AIHUBMIX_MODEL",
		BaseURLEnv:  "AIHUBMIX_BASE_URL",
		Model:       openai.DefaultModel,
		BaseURL:     "https://aihubmix.com/v1",
		Description: "aihubmix OpenAI-compatible gateway",
	},
	OpenAI: {
		KeyEnv:      "OPENAI_API_KEY",
		ModelEnv:    "OPENAI_MODEL",
		BaseURLEnv:  "OPENAI_BASE_URL",
		Model:       openai.DefaultModel,
		BaseURL:     openai.DefaultBaseURL,
		Description: "OpenAI chat completions",
	},
	Gemini: {
		KeyEnv:      "GEMINI_API_KEY",
		Model:       gemini.DefaultModel,
		Description: "Google Gemini",
	},
}

// Supported returns the supported platform ids in a stable order.
func Supported() []string {
	return []string{Claude, AIHubMix, OpenAI, Gemini}
}

// DefaultsFor returns the defaults of a platform id (case-insensitive).
func DefaultsFor(id string) (Defaults, bool) {
	d, ok := platforms[strings.ToLower(strings.TrimSpace(id))]
	return d, ok
}

type factory struct {
	lookupEnv  func(string) (string, bool)
	logger     zerolog.Logger
	timeout    time.Duration
	httpClient *http.Client
	newGemini  func(ctx context.Context, apiKey string) (gemini.GenerativeClient, error)
}

// Option configures New.
type Option func(*factory)

// WithLookupEnv replaces os.LookupEnv for credential resolution.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(f *factory) {
		f.lookupEnv = fn
	}
}

// WithLogger sets the logger passed to the evaluator.
func WithLogger(l zerolog.Logger) Option {
	return func(f *factory) {
		f.logger = l
	}
}

// WithTimeout sets the per-call timeout of the evaluator.
func WithTimeout(d time.Duration) Option {
	return func(f *factory) {
		f.timeout = d
	}
}

// WithHTTPClient sets the HTTP client of HTTP-based adapters.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *factory) {
		f.httpClient = hc
	}
}

// WithGeminiClient replaces the constructor of the Gemini client.
func WithGeminiClient(fn func(ctx context.Context, apiKey string) (gemini.GenerativeClient, error)) Option {
	return func(f *factory) {
		f.newGemini = fn
	}
}

// New builds the evaluator for cfg.Platform. An empty platform selects
// Default. Unknown platforms fail with a *vidgrade.ConfigError. A missing
// credential does not fail: the evaluator is built but reports unavailable.
func New(ctx context.Context, cfg vidgrade.EvaluatorConfig, opts ...Option) (*critique.Evaluator, error) {
	f := &factory{
		lookupEnv:  os.LookupEnv,
		logger:     zerolog.Nop(),
		timeout:    critique.DefaultTimeout,
		httpClient: http.DefaultClient,
		newGemini: func(ctx context.Context, apiKey string) (gemini.GenerativeClient, error) {
			return gemini.NewClient(ctx, apiKey)
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	id := strings.ToLower(strings.TrimSpace(cfg.Platform))
	if id == "" {
		id = Default
	}
	defaults, ok := platforms[id]
	if !ok {
		return nil, &vidgrade.ConfigError{Platform: cfg.Platform, Supported: Supported()}
	}

	apiKey := f.resolve(cfg.APIKey, defaults.KeyEnv, "")
	model := f.resolve(cfg.Model, defaults.ModelEnv, defaults.Model)
	baseURL := f.resolve(cfg.BaseURL, defaults.BaseURLEnv, defaults.BaseURL)

	log := f.logger.With().Str("platform", id).Str("model", model).Logger()
	available := apiKey != ""
	if !available {
		log.Warn().Str("env", defaults.KeyEnv).Msg("no API key configured, ai evaluation disabled")
	}

	var backend critique.Backend
	switch id {
	case Claude:
		backend = claude.NewClient(apiKey,
			claude.WithModel(model),
			claude.WithBaseURL(baseURL),
			claude.WithHTTPClient(f.httpClient),
		)
	case AIHubMix, OpenAI:
		backend = openai.NewClient(id, apiKey,
			openai.WithModel(model),
			openai.WithBaseURL(baseURL),
			openai.WithHTTPClient(f.httpClient),
		)
	case Gemini:
		var client gemini.GenerativeClient
		if available {
			c, err := f.newGemini(ctx, apiKey)
			if err != nil {
				log.Warn().Err(err).Msg("gemini client init failed, ai evaluation disabled")
				available = false
			} else {
				client = c
			}
		}
		backend = gemini.NewBackend(client, model)
	}

	log.Debug().Bool("available", available).Msg("ai evaluator configured")

	return critique.New(backend,
		critique.WithAvailable(available),
		critique.WithTimeout(f.timeout),
		critique.WithLogger(f.logger),
	), nil
}

func (f *factory) resolve(explicit, env, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if env != "" {
		if v, ok := f.lookupEnv(env); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return fallback
}
