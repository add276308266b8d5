package mock

import (
	"context"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/critique"
)

// Compile-time interface verification.
var (
	_ vidgrade.AIEvaluator = (*AIEvaluator)(nil)
	_ critique.Backend     = (*Backend)(nil)
)

// AIEvaluator is a mock implementation of vidgrade.AIEvaluator.
type AIEvaluator struct {
	EvaluateFn  func(ctx context.Context, input vidgrade.CritiqueInput) *vidgrade.AIEvaluation
	AvailableFn func() bool
	PlatformFn  func() string
}

func (e *AIEvaluator) Evaluate(ctx context.Context, input vidgrade.CritiqueInput) *vidgrade.AIEvaluation {
	return e.EvaluateFn(ctx, input)
}

func (e *AIEvaluator) Available() bool {
	return e.AvailableFn()
}

func (e *AIEvaluator) Platform() string {
	return e.PlatformFn()
}

// Backend is a mock implementation of critique.Backend.
type Backend struct {
	NameValue  string
	ModelValue string
	CompleteFn func(ctx context.Context, frames []vidgrade.KeyFrame, prompt string) (string, error)
}

func (b *Backend) Name() string {
	return b.NameValue
}

func (b *Backend) Model() string {
	return b.ModelValue
}

func (b *Backend) Complete(ctx context.Context, frames []vidgrade.KeyFrame, prompt string) (string, error) {
	return b.CompleteFn(ctx, frames, prompt)
}
