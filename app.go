// SPDX-License-Identifier: EPL-2.0

package audmood

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ik5/audmood/capture"
	"github.com/ik5/audmood/classify"
	"github.com/ik5/audmood/features"
	"github.com/ik5/audmood/model"
	"github.com/ik5/audmood/normalize"
)

// Config names the three scorers and the feature settings they were
// trained against.
type Config struct {
	Gender   model.Spec
	Language model.Spec
	Emotion  model.Spec
	Features features.Config
}

// App owns the loaded scorers and runs uploads and recordings through
// conversion, feature extraction and the gated pipeline. It is safe for
// concurrent use once built.
type App struct {
	normalizer *normalize.Normalizer
	extractor  *features.Extractor
	pipeline   *classify.Pipeline
	log        zerolog.Logger
}

type Option func(*App)

func WithLogger(log zerolog.Logger) Option {
	return func(a *App) { a.log = log }
}

// New loads the three scorers described by cfg. Any missing or
// mismatched model is an error; the App never reloads them.
func New(cfg Config, opts ...Option) (*App, error) {
	size := cfg.Features.Len()

	gender, err := model.Load("gender", cfg.Gender, size)
	if err != nil {
		return nil, err
	}
	language, err := model.Load("language", cfg.Language, size)
	if err != nil {
		return nil, err
	}
	emotion, err := model.Load("emotion", cfg.Emotion, size)
	if err != nil {
		return nil, err
	}

	return NewWithScorers(cfg.Features, gender, language, emotion, opts...)
}

// NewWithScorers builds an App around scorers that are already loaded.
func NewWithScorers(fcfg features.Config, gender, language, emotion classify.Scorer, opts ...Option) (*App, error) {
	a := &App{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}

	extractor, err := features.New(fcfg, features.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("feature extractor: %w", err)
	}

	pipeline, err := classify.NewPipeline(extractor.Len(), gender, language, emotion, classify.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	a.extractor = extractor
	a.pipeline = pipeline
	a.normalizer = normalize.New(
		normalize.WithSampleRate(fcfg.SampleRate),
		normalize.WithLogger(a.log),
	)
	a.log = a.log.With().Str("component", "app").Logger()

	a.log.Debug().
		Str("gender", gender.Name()).
		Str("language", language.Name()).
		Str("emotion", emotion.Name()).
		Int("features", extractor.Len()).
		Msg("models loaded")

	return a, nil
}

// Extensions lists the upload extensions Predict can convert.
func (a *App) Extensions() []string { return a.normalizer.Extensions() }

// Predict classifies the audio file at path. Failures come back as a
// Failed result rather than an error.
func (a *App) Predict(ctx context.Context, path string) classify.Result {
	log := a.log.With().
		Str("prediction_id", uuid.NewString()).
		Str("path", path).
		Logger()

	wavPath, err := a.normalizer.Normalize(path)
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		return classify.Failed(classify.StageConversion, err)
	}

	vec, err := a.extractor.ExtractFile(wavPath)
	if err != nil {
		log.Error().Err(err).Str("wav", wavPath).Msg("feature extraction failed")
		return classify.Failed(classify.StageExtraction, err)
	}

	res := a.pipeline.Classify(ctx, vec)
	if res.Err != nil {
		log.Error().Err(res.Err).Msg("prediction failed")
	} else {
		log.Info().Str("result", res.Message()).Msg("prediction done")
	}
	return res
}

// PredictRecording stops the session, saves it to path and classifies the
// saved file. A recording that cannot be saved is reported as a
// conversion failure.
func (a *App) PredictRecording(ctx context.Context, s *capture.Session, path string) classify.Result {
	saved, err := s.Finish(path)
	if err != nil {
		a.log.Error().Err(err).Msg("saving recording failed")
		return classify.Failed(classify.StageConversion, err)
	}

	return a.Predict(ctx, saved)
}
