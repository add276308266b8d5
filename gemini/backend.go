package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/critique"
)

// Compile-time interface verification.
var _ critique.Backend = (*Backend)(nil)

const (
	// Platform is the platform identifier of this backend.
	Platform = "gemini"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash"
	// MaxOutputTokens bounds the reply length.
	MaxOutputTokens = 2000
)

// Backend implements critique.Backend using Google Gemini. Frames are sent as
// inline blobs ahead of the prompt text in a single user turn.
type Backend struct {
	client GenerativeClient
	model  string
}

// NewBackend creates a Backend. An empty model selects DefaultModel.
func NewBackend(client GenerativeClient, model string) *Backend {
	if model == "" {
		model = DefaultModel
	}
	return &Backend{client: client, model: model}
}

// Name returns the platform identifier.
func (b *Backend) Name() string { return Platform }

// Model returns the Gemini model requests are sent to.
func (b *Backend) Model() string { return b.model }

// Complete sends frames and prompt to Gemini and returns the reply text.
func (b *Backend) Complete(ctx context.Context, frames []vidgrade.KeyFrame, prompt string) (string, error) {
	parts := make([]*Part, 0, len(frames)+1)
	for _, f := range frames {
		parts = append(parts, &Part{InlineData: &Blob{MIMEType: f.MIMEType, Data: f.Data}})
	}
	parts = append(parts, &Part{Text: prompt})

	resp, err := b.client.GenerateContent(ctx, b.model, []*Content{{Role: "user", Parts: parts}}, BuildConfig())
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}
	return resp.Text, nil
}

// BuildConfig returns the GenerateContentConfig for critique calls.
func BuildConfig() *GenerateContentConfig {
	temp := float32(1.0)
	return &GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  MaxOutputTokens,
		ResponseMIMEType: "application/json",
	}
}
