// SPDX-License-Identifier: EPL-2.0

package model

import (
	"fmt"

	"github.com/ik5/audmood/classify"
)

const (
	BackendDense = "dense"
	BackendExec  = "exec"
)

// Spec locates one scorer.
type Spec struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`    // dense artifact
	Command string `yaml:"command"` // exec command line
}

// Load builds the scorer described by spec. inputSize is only used by the
// exec backend; dense artifacts carry their own and are checked when the
// pipeline is assembled.
func Load(name string, spec Spec, inputSize int) (classify.Scorer, error) {
	switch spec.Backend {
	case BackendDense, "":
		if spec.Path == "" {
			return nil, fmt.Errorf("%w: %s: dense backend needs a path", ErrInvalidModel, name)
		}
		d, err := LoadDense(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s model: %w", name, err)
		}
		return d, nil
	case BackendExec:
		e, err := NewExec(name, spec.Command, inputSize)
		if err != nil {
			return nil, fmt.Errorf("load %s model: %w", name, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, spec.Backend)
	}
}
