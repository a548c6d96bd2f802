// SPDX-License-Identifier: EPL-2.0

package classify

import "context"

// Scorer maps a feature vector to one score per label. Implementations
// must be safe for concurrent use; the pipeline treats them as read-only.
type Scorer interface {
	Score(ctx context.Context, features []float64) ([]float64, error)
	// InputSize is the vector length the scorer accepts.
	InputSize() int
	Name() string
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc struct {
	ID   string
	Size int
	Fn   func(ctx context.Context, features []float64) ([]float64, error)
}

func (f ScorerFunc) Score(ctx context.Context, features []float64) ([]float64, error) {
	return f.Fn(ctx, features)
}

func (f ScorerFunc) InputSize() int { return f.Size }
func (f ScorerFunc) Name() string   { return f.ID }
