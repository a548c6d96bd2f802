// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ik5/audmood"
	"github.com/ik5/audmood/capture"
	"github.com/ik5/audmood/capture/portaudio"
	"github.com/ik5/audmood/classify"
	"github.com/ik5/audmood/internal/cli"
	"github.com/ik5/audmood/internal/config"
	"github.com/ik5/audmood/internal/logging"
	"github.com/ik5/audmood/internal/ui"
	"github.com/ik5/audmood/normalize"
)

var (
	version = "0.0.1"
)

var errReported = errors.New("failures were reported above")

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	EnvFile  string `type:"path" help:"Env file with AUDMOOD_* overrides" default:".env"`
	LogLevel string `help:"Override the configured log level" placeholder:"LEVEL"`

	stdout io.Writer
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Predict PredictCmd `cmd:"" help:"Classify the emotion in audio files"`
	Record  RecordCmd  `cmd:"" help:"Record from the microphone and classify"`
	Convert ConvertCmd `cmd:"" help:"Convert audio files to 16 kHz mono WAV without classifying"`
	Formats FormatsCmd `cmd:"" help:"List accepted upload formats"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type PredictCmd struct {
	Files []string `arg:"" name:"files" help:"Audio files to classify" type:"existingfile"`
}

type RecordCmd struct {
	Output      string  `short:"o" type:"path" help:"Where to save the recording (overrides config)"`
	MaxDuration float64 `help:"Stop after this many seconds, 0 for no limit (overrides config)" placeholder:"SECONDS" default:"-1"`
}

type ConvertCmd struct {
	Files []string `arg:"" name:"files" help:"Audio files to convert" type:"existingfile"`
}

type FormatsCmd struct{}

type VersionCmd struct{}

func main() {
	cliArgs := &CLI{Globals: Globals{stdout: os.Stdout}}
	ctx := kong.Parse(cliArgs,
		kong.Name("audmood"),
		kong.Description("Emotion classifier for female English voice notes"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if err := ctx.Run(&cliArgs.Globals); err != nil {
		if !errors.Is(err, errReported) {
			cli.PrintError(err.Error())
		}
		os.Exit(1)
	}
}

// session loads configuration and logging for commands that need models.
type session struct {
	cfg     config.Config
	log     zerolog.Logger
	release func() error
}

func (g *Globals) open() (*session, error) {
	if err := config.LoadEnv(g.EnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}

	log, release, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: log, release: release}, nil
}

func (s *session) app() (*audmood.App, error) {
	app, err := audmood.New(audmood.Config{
		Gender:   s.cfg.Models.Gender,
		Language: s.cfg.Models.Language,
		Emotion:  s.cfg.Models.Emotion,
		Features: s.cfg.Features,
	}, audmood.WithLogger(s.log))
	if err != nil {
		return nil, fmt.Errorf("loading models: %w", err)
	}
	return app, nil
}

func (c *PredictCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.release()

	app, err := s.app()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := false
	for _, path := range c.Files {
		res := app.Predict(ctx, path)
		cli.PrintResult(g.stdout, path, res)
		if res.Kind == classify.KindFailed {
			failed = true
		}
	}

	if failed {
		return errReported
	}
	return nil
}

func (c *RecordCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.release()

	app, err := s.app()
	if err != nil {
		return err
	}

	rc := s.cfg.Recording
	if c.Output != "" {
		rc.OutputPath = c.Output
	}
	if c.MaxDuration >= 0 {
		rc.MaxDurationS = c.MaxDuration
	}

	rate := s.cfg.Features.SampleRate
	rec := capture.NewSession(
		capture.WithSampleRate(rate),
		capture.WithMaxDuration(rc.MaxDuration()),
		capture.WithLogger(s.log),
	)

	stream, err := portaudio.Open(rec.Append, rate, rc.FramesPerBuffer)
	if err != nil {
		return err
	}
	if err := rec.Start(stream); err != nil {
		return err
	}

	final, err := tea.NewProgram(ui.NewModel(rec, rc.MaxDuration())).Run()
	if err != nil {
		_, _ = rec.Stop()
		return fmt.Errorf("UI error: %w", err)
	}

	if m, ok := final.(ui.Model); ok && m.Outcome == ui.OutcomeCanceled {
		_, err := rec.Stop()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := app.PredictRecording(ctx, rec, rc.OutputPath)
	cli.PrintResult(g.stdout, rc.OutputPath, res)
	if res.Kind == classify.KindFailed {
		return errReported
	}
	return nil
}

func (c *ConvertCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.release()

	n := normalize.New(
		normalize.WithSampleRate(s.cfg.Features.SampleRate),
		normalize.WithLogger(s.log),
	)

	var errs []error
	for _, path := range c.Files {
		out, err := n.Normalize(path)
		if err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", path, err))
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(g.stdout, "%s -> %s\n", path, out)
	}

	if len(errs) > 0 {
		return errReported
	}
	return nil
}

func (FormatsCmd) Run(g *Globals) error {
	cli.PrintFormats(g.stdout, normalize.SupportedExtensions())
	return nil
}

func (VersionCmd) Run() error {
	cli.PrintVersion(version)
	return nil
}
