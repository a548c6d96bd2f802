// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Pipeline runs the gender, language and emotion scorers in order and
// stops at the first gate that rejects.
type Pipeline struct {
	gender   Scorer
	language Scorer
	emotion  Scorer
	log      zerolog.Logger
}

type Option func(*Pipeline)

func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline checks that every scorer accepts vectors of inputSize.
func NewPipeline(inputSize int, gender, language, emotion Scorer, opts ...Option) (*Pipeline, error) {
	stages := []struct {
		role string
		s    Scorer
	}{
		{"gender", gender},
		{"language", language},
		{"emotion", emotion},
	}
	for _, st := range stages {
		if st.s == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilScorer, st.role)
		}
		if got := st.s.InputSize(); got != inputSize {
			return nil, fmt.Errorf("%w: %s scorer %q takes %d values, features have %d",
				ErrDimensionMismatch, st.role, st.s.Name(), got, inputSize)
		}
	}

	p := &Pipeline{
		gender:   gender,
		language: language,
		emotion:  emotion,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("component", "classify").Logger()

	return p, nil
}

// Classify scores features through the gates. It never returns an error;
// scorer failures come back as a Failed result at the inference stage.
func (p *Pipeline) Classify(ctx context.Context, features []float64) Result {
	gender, err := p.decide(ctx, "gender", p.gender, GenderLabels, features)
	if err != nil {
		return Failed(StageInference, err)
	}
	if gender != acceptedGender {
		return Rejected(ReasonNotFemale)
	}

	language, err := p.decide(ctx, "language", p.language, LanguageLabels, features)
	if err != nil {
		return Failed(StageInference, err)
	}
	if language != acceptedLanguage {
		return Rejected(ReasonNotEnglish)
	}

	emotion, err := p.decide(ctx, "emotion", p.emotion, EmotionLabels, features)
	if err != nil {
		return Failed(StageInference, err)
	}

	return Emotion(emotion)
}

func (p *Pipeline) decide(ctx context.Context, role string, s Scorer, labels []string, features []float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInference, role, err)
	}

	scores, err := s.Score(ctx, features)
	if err != nil {
		p.log.Warn().Err(err).Str("stage", role).Str("scorer", s.Name()).Msg("scorer failed")
		return "", fmt.Errorf("%w: %s scorer %q: %w", ErrInference, role, s.Name(), err)
	}
	if len(scores) != len(labels) {
		return "", fmt.Errorf("%w: %s scorer %q returned %d scores, want %d",
			ErrInference, role, s.Name(), len(scores), len(labels))
	}
	for i, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("%w: %s scorer %q returned %v at index %d",
				ErrInference, role, s.Name(), v, i)
		}
	}

	label := labels[Argmax(scores)]
	p.log.Debug().
		Str("stage", role).
		Floats64("scores", scores).
		Str("label", label).
		Msg("prediction")

	return label, nil
}
