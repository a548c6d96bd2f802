// SPDX-License-Identifier: EPL-2.0

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

type execRequest struct {
	Features []float64 `json:"features"`
}

type execResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Exec scores features by running an external command once per call. The
// command reads {"features": [...]} on stdin and writes
// {"probabilities": [...]} on stdout. This is the bridge to models that
// only run in another runtime.
type Exec struct {
	name  string
	args  []string
	input int
}

// NewExec parses command with shell quoting rules. input is the vector
// length the command is declared to accept.
func NewExec(name, command string, input int) (*Exec, error) {
	args, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse model command: %w", err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	if name == "" {
		name = args[0]
	}

	return &Exec{name: name, args: args, input: input}, nil
}

func (e *Exec) Name() string   { return e.name }
func (e *Exec) InputSize() int { return e.input }

func (e *Exec) Score(ctx context.Context, features []float64) ([]float64, error) {
	if len(features) != e.input {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(features), e.input)
	}

	payload, err := json.Marshal(execRequest{Features: features})
	if err != nil {
		return nil, fmt.Errorf("encode model request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.args[0], e.args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("model command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var resp execResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if len(resp.Probabilities) == 0 {
		return nil, fmt.Errorf("%w: no probabilities", ErrBadResponse)
	}

	return resp.Probabilities, nil
}
