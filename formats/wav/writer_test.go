// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []float32{0, 0.25, -0.25, 0.999, -1, 1.5, -1.5}
	path := filepath.Join(t.TempDir(), "out.wav")

	if err := WriteFile(path, 16000, in); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, rate, chans := readAll(t, data)

	if rate != 16000 || chans != 1 {
		t.Fatalf("format = %d Hz x %d, want 16000 Hz mono", rate, chans)
	}
	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}

	for i, v := range in {
		want := math.Max(-1, math.Min(1, float64(v)))
		if math.Abs(float64(got[i])-want) > 2.0/32768 {
			t.Errorf("sample %d = %v, want ≈%v", i, got[i], want)
		}
	}
}

func TestWriteFile_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := WriteFile(path, 16000, nil); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, _, _ := readAll(t, data); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recorded_audio.wav")
	if err := WriteFile(path, 16000, make([]float32, 1000)); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, 16000, []float32{0.5}); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if got, _, _ := readAll(t, data); len(got) != 1 {
		t.Errorf("len = %d, want 1 after overwrite", len(got))
	}
}

func TestWriteFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if err := WriteFile(filepath.Join(dir, "x.wav"), 0, []float32{0}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("rate 0 error = %v, want ErrInvalidFormat", err)
	}
	if err := WriteFile(filepath.Join(dir, "missing", "x.wav"), 16000, nil); err == nil {
		t.Error("WriteFile() into missing dir succeeded, want error")
	}
}
