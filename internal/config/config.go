// SPDX-License-Identifier: EPL-2.0

// Package config loads audmood settings: defaults, then an optional YAML
// file, then AUDMOOD_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audmood/capture"
	"github.com/ik5/audmood/features"
	"github.com/ik5/audmood/internal/logging"
	"github.com/ik5/audmood/model"
)

type ModelsConfig struct {
	Gender   model.Spec `yaml:"gender"`
	Language model.Spec `yaml:"language"`
	Emotion  model.Spec `yaml:"emotion"`
}

type RecordingConfig struct {
	OutputPath      string  `yaml:"output_path"`
	MaxDurationS    float64 `yaml:"max_duration_s"` // 0 disables the cap
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
}

func (r RecordingConfig) MaxDuration() time.Duration {
	return time.Duration(r.MaxDurationS * float64(time.Second))
}

type Config struct {
	Models    ModelsConfig    `yaml:"models"`
	Features  features.Config `yaml:"features"`
	Recording RecordingConfig `yaml:"recording"`
	Logging   logging.Config  `yaml:"logging"`
}

func Default() Config {
	return Config{
		Models: ModelsConfig{
			Gender:   model.Spec{Backend: model.BackendDense, Path: "models/gender.msgpack"},
			Language: model.Spec{Backend: model.BackendDense, Path: "models/language.msgpack"},
			Emotion:  model.Spec{Backend: model.BackendDense, Path: "models/emotion.msgpack"},
		},
		Features: features.DefaultConfig(),
		Recording: RecordingConfig{
			OutputPath:      capture.DefaultOutputPath,
			MaxDurationS:    capture.DefaultMaxDuration.Seconds(),
			FramesPerBuffer: 1024,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.Logging.ApplyDefaults()
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv reads KEY=VALUE pairs from an env file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	overrideModel(&cfg.Models.Gender, "AUDMOOD_MODELS_GENDER")
	overrideModel(&cfg.Models.Language, "AUDMOOD_MODELS_LANGUAGE")
	overrideModel(&cfg.Models.Emotion, "AUDMOOD_MODELS_EMOTION")
	overrideInt(&cfg.Features.SampleRate, "AUDMOOD_FEATURES_SAMPLE_RATE")
	overrideInt(&cfg.Features.FFTSize, "AUDMOOD_FEATURES_N_FFT")
	overrideInt(&cfg.Features.HopLength, "AUDMOOD_FEATURES_HOP_LENGTH")
	overrideInt(&cfg.Features.NumMels, "AUDMOOD_FEATURES_N_MELS")
	overrideInt(&cfg.Features.NumMFCC, "AUDMOOD_FEATURES_N_MFCC")
	overrideInt(&cfg.Features.NumChroma, "AUDMOOD_FEATURES_N_CHROMA")
	overrideTuning(&cfg.Features.Tuning, "AUDMOOD_FEATURES_TUNING")
	overrideFloat(&cfg.Features.TopDB, "AUDMOOD_FEATURES_TOP_DB")
	overrideString(&cfg.Recording.OutputPath, "AUDMOOD_RECORDING_OUTPUT_PATH")
	overrideFloat(&cfg.Recording.MaxDurationS, "AUDMOOD_RECORDING_MAX_DURATION_S")
	overrideInt(&cfg.Recording.FramesPerBuffer, "AUDMOOD_RECORDING_FRAMES_PER_BUFFER")
	overrideString(&cfg.Logging.Level, "AUDMOOD_LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "AUDMOOD_LOG_FORMAT")
	overrideString(&cfg.Logging.Output, "AUDMOOD_LOG_OUTPUT")
	overrideBool(&cfg.Logging.NoColor, "AUDMOOD_LOG_NO_COLOR")
}

func overrideModel(target *model.Spec, prefix string) {
	overrideString(&target.Backend, prefix+"_BACKEND")
	overrideString(&target.Path, prefix+"_PATH")
	overrideString(&target.Command, prefix+"_COMMAND")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideTuning(target *features.Tuning, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := features.ParseTuning(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	models := []struct {
		role string
		spec model.Spec
	}{
		{"gender", cfg.Models.Gender},
		{"language", cfg.Models.Language},
		{"emotion", cfg.Models.Emotion},
	}
	for _, m := range models {
		switch m.spec.Backend {
		case model.BackendDense:
			if m.spec.Path == "" {
				return fmt.Errorf("models.%s.path must be set when backend=dense", m.role)
			}
		case model.BackendExec:
			if strings.TrimSpace(m.spec.Command) == "" {
				return fmt.Errorf("models.%s.command must be set when backend=exec", m.role)
			}
		default:
			return fmt.Errorf("models.%s.backend must be one of dense|exec (got: %q)", m.role, m.spec.Backend)
		}
	}

	if err := cfg.Features.Validate(); err != nil {
		return err
	}

	if cfg.Recording.OutputPath == "" {
		return errors.New("recording.output_path must not be empty")
	}
	if cfg.Recording.MaxDurationS < 0 {
		return errors.New("recording.max_duration_s must be >= 0")
	}
	if cfg.Recording.FramesPerBuffer <= 0 {
		return errors.New("recording.frames_per_buffer must be positive")
	}

	return cfg.Logging.Validate()
}
