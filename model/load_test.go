// SPDX-License-Identifier: EPL-2.0

package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "language.msgpack")
	if err := SaveDense(path, twoClass()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		spec      Spec
		wantInput int
		wantErr   error
	}{
		{"dense", Spec{Backend: BackendDense, Path: path}, 2, nil},
		{"default backend", Spec{Path: path}, 2, nil},
		{"exec", Spec{Backend: BackendExec, Command: "python3 score.py --model emotion.h5"}, 180, nil},
		{"dense without path", Spec{Backend: BackendDense}, 0, ErrInvalidModel},
		{"exec without command", Spec{Backend: BackendExec}, 0, ErrEmptyCommand},
		{"unknown", Spec{Backend: "onnx", Path: path}, 0, ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := Load(tt.name, tt.spec, 180)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if s.InputSize() != tt.wantInput {
				t.Errorf("InputSize() = %d, want %d", s.InputSize(), tt.wantInput)
			}
		})
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	t.Parallel()

	_, err := Load("gender", Spec{Path: filepath.Join(t.TempDir(), "nope.msgpack")}, 180)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
