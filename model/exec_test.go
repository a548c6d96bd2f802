// SPDX-License-Identifier: EPL-2.0

package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"
)

// helperCommand re-runs the test binary as a fake model process.
func helperCommand(mode string, args ...string) string {
	cmd := fmt.Sprintf("%q -test.run=^TestHelperProcess$ -- %s", os.Args[0], mode)
	for _, a := range args {
		cmd += " " + a
	}
	return cmd
}

func TestHelperProcess(t *testing.T) {
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		return
	}
	mode, rest := args[1], args[2:]

	var req execRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, "bad request:", err)
		os.Exit(2)
	}

	switch mode {
	case "respond":
		probs := make([]float64, len(rest))
		for i, s := range rest {
			probs[i], _ = strconv.ParseFloat(s, 64)
		}
		_ = json.NewEncoder(os.Stdout).Encode(execResponse{Probabilities: probs})
	case "echo":
		_ = json.NewEncoder(os.Stdout).Encode(execResponse{Probabilities: req.Features})
	case "fail":
		fmt.Fprintln(os.Stderr, "model exploded")
		os.Exit(1)
	case "garbage":
		fmt.Fprint(os.Stdout, "<html>")
	case "empty":
		fmt.Fprint(os.Stdout, `{"probabilities":[]}`)
	case "sleep":
		time.Sleep(time.Minute)
	}
	os.Exit(0)
}

func TestExecScore(t *testing.T) {
	t.Parallel()

	e, err := NewExec("gender", helperCommand("respond", "0.25", "0.75"), 3)
	if err != nil {
		t.Fatalf("NewExec() error = %v", err)
	}
	if e.Name() != "gender" || e.InputSize() != 3 {
		t.Errorf("metadata = (%q, %d)", e.Name(), e.InputSize())
	}

	got, err := e.Score(context.Background(), []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) != 2 || got[0] != 0.25 || got[1] != 0.75 {
		t.Errorf("Score() = %v, want [0.25 0.75]", got)
	}
}

func TestExecSendsFeatures(t *testing.T) {
	t.Parallel()

	e, err := NewExec("echo", helperCommand("echo"), 4)
	if err != nil {
		t.Fatal(err)
	}

	in := []float64{0.5, -1, 3e-9, 42}
	got, err := e.Score(context.Background(), in)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("Score() = %v, want %v", got, in)
		}
	}
}

func TestExecErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode string
		want error
	}{
		{"fail", nil},
		{"garbage", ErrBadResponse},
		{"empty", ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()

			e, err := NewExec(tt.mode, helperCommand(tt.mode), 1)
			if err != nil {
				t.Fatal(err)
			}
			_, err = e.Score(context.Background(), []float64{1})
			if err == nil {
				t.Fatal("Score() succeeded")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Score() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExecInputSize(t *testing.T) {
	t.Parallel()

	e, err := NewExec("", "true", 2)
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "true" {
		t.Errorf("Name() = %q, want command name", e.Name())
	}
	if _, err := e.Score(context.Background(), []float64{1}); !errors.Is(err, ErrInputSize) {
		t.Errorf("Score() error = %v, want ErrInputSize", err)
	}
}

func TestExecTimeout(t *testing.T) {
	t.Parallel()

	e, err := NewExec("slow", helperCommand("sleep"), 1)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := e.Score(ctx, []float64{1}); err == nil {
		t.Fatal("Score() succeeded")
	}
	if d := time.Since(start); d > 30*time.Second {
		t.Errorf("Score() took %v after cancel", d)
	}
}

func TestNewExecRejects(t *testing.T) {
	t.Parallel()

	if _, err := NewExec("x", "   ", 1); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("NewExec(blank) error = %v, want ErrEmptyCommand", err)
	}
	if _, err := NewExec("x", `python "unterminated`, 1); err == nil {
		t.Error("NewExec(unterminated quote) succeeded")
	}
}
