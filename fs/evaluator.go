package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/vidgrade"
)

// Compile-time interface verification.
var _ vidgrade.AIEvaluator = (*Evaluator)(nil)

// modeler is implemented by evaluators that know their backend model.
type modeler interface {
	Model() string
}

// Evaluator wraps an AIEvaluator with file-based caching. Only critiques
// decoded from a model reply are cached; degraded results are always
// recomputed. Entries are keyed by platform, model and input.
type Evaluator struct {
	inner    vidgrade.AIEvaluator
	cacheDir string
}

// NewEvaluator creates a new caching evaluator.
func NewEvaluator(inner vidgrade.AIEvaluator, cacheDir string) *Evaluator {
	return &Evaluator{
		inner:    inner,
		cacheDir: cacheDir,
	}
}

// Available reports whether the wrapped evaluator can reach its backend.
func (e *Evaluator) Available() bool { return e.inner.Available() }

// Platform returns the wrapped evaluator's platform identifier.
func (e *Evaluator) Platform() string { return e.inner.Platform() }

// Evaluate returns a cached critique or delegates to the inner evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, input vidgrade.CritiqueInput) *vidgrade.AIEvaluation {
	hash := e.hashInput(input)

	if cached, err := e.loadFromCache(hash); err == nil {
		return cached
	}

	result := e.inner.Evaluate(ctx, input)
	if result == nil || result.Degraded() {
		return result
	}

	// Best-effort.
	_ = e.saveToCache(hash, result)

	return result
}

func (e *Evaluator) hashInput(input vidgrade.CritiqueInput) string {
	h := sha256.New()
	h.Write([]byte(e.inner.Platform()))
	h.Write([]byte{0})
	if m, ok := e.inner.(modeler); ok {
		h.Write([]byte(m.Model()))
	}
	h.Write([]byte{0})
	data, _ := json.Marshal(input)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (e *Evaluator) cachePath(hash string) string {
	return filepath.Join(e.cacheDir, hash+".json")
}

func (e *Evaluator) loadFromCache(hash string) (*vidgrade.AIEvaluation, error) {
	data, err := os.ReadFile(e.cachePath(hash))
	if err != nil {
		return nil, err
	}

	var result vidgrade.AIEvaluation
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (e *Evaluator) saveToCache(hash string, result *vidgrade.AIEvaluation) error {
	if err := os.MkdirAll(e.cacheDir, 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return os.WriteFile(e.cachePath(hash), data, 0o644)
}
