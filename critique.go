package vidgrade

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReportNotFound is returned when a report id is not in the store.
var ErrReportNotFound = errors.New("report not found")

// MaxKeyFrames bounds how many frames are sent to an AI backend.
const MaxKeyFrames = 3

// AIEvaluation is the narrative critique produced by an AI backend.
type AIEvaluation struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	RawResponse     string   `json:"raw_response,omitempty"`
}

// KeyFrame is an encoded image sampled from the video.
type KeyFrame struct {
	Name     string // source path or label, for diagnostics
	MIMEType string // e.g. "image/jpeg"; detected from Data when empty
	Data     []byte
}

// CritiqueInput is everything an AI backend is shown about one video.
type CritiqueInput struct {
	KeyFrames    []KeyFrame
	Transcript   string
	OnScreenText string
	Evaluation   *EvaluationResult
}

// EvaluatorConfig selects and configures an AI backend.
type EvaluatorConfig struct {
	Platform string `yaml:"platform"` // case-insensitive platform id
	APIKey   string `yaml:"-"`
	Model    string `yaml:"model"`    // empty selects the platform default
	BaseURL  string `yaml:"base_url"` // empty selects the platform default
}

// ConfigError reports an evaluator that cannot be constructed.
type ConfigError struct {
	Platform  string
	Supported []string
	Reason    string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("ai platform %q: %s", e.Platform, e.Reason)
	}
	return fmt.Sprintf("unsupported ai platform %q (supported: %s)",
		e.Platform, strings.Join(e.Supported, ", "))
}

// APIError is a non-2xx response from an AI backend.
type APIError struct {
	Platform   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (HTTP %d): %s", e.Platform, e.StatusCode, e.Message)
}
