// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audmood/audio"
	"github.com/ik5/audmood/formats/wav"
)

type fakeStream struct {
	mu      sync.Mutex
	starts  int
	stops   int
	closes  int
	events  []string
	onStop  func()
	startEr error
	stopErr error
}

func (f *fakeStream) record(ev string, n *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	*n++
}

func (f *fakeStream) Start() error {
	f.record("start", &f.starts)
	return f.startEr
}

func (f *fakeStream) Stop() error {
	f.record("stop", &f.stops)
	if f.onStop != nil {
		f.onStop()
	}
	return f.stopErr
}

func (f *fakeStream) Close() error {
	f.record("close", &f.closes)
	return nil
}

func TestSessionConcatenatesInOrder(t *testing.T) {
	t.Parallel()

	s := NewSession()
	stream := &fakeStream{}
	if err := s.Start(stream); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	s.Append([]float32{0.1, 0.2})
	s.Append([]float32{0.3})
	s.Append([]float32{0.4, 0.5, 0.6})

	got, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	if len(got) != len(want) {
		t.Fatalf("Stop() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Stop() = %v, want %v", got, want)
		}
	}

	if stream.starts != 1 || stream.stops != 1 || stream.closes != 1 {
		t.Errorf("stream calls = %d/%d/%d, want 1/1/1", stream.starts, stream.stops, stream.closes)
	}
}

func TestSessionCopiesChunks(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}

	chunk := []float32{1, 2}
	s.Append(chunk)
	chunk[0] = 99

	got, _ := s.Stop()
	if got[0] != 1 {
		t.Errorf("buffer aliases caller chunk: %v", got)
	}
}

func TestSessionDropsOutsideRecording(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.Append([]float32{9, 9})

	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{1})

	got, err := s.Stop()
	if err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{7, 7, 7})

	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Stop() = %v, want [1]", got)
	}
	if s.Recording() {
		t.Error("Recording() = true after Stop")
	}
}

func TestSessionStopClosesStreamFirst(t *testing.T) {
	t.Parallel()

	s := NewSession()
	stream := &fakeStream{}
	// a callback racing with Stop still lands in the buffer
	stream.onStop = func() { s.Append([]float32{0.5}) }

	if err := s.Start(stream); err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{0.25})

	got, err := s.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != 0.5 {
		t.Errorf("Stop() = %v, want [0.25 0.5]", got)
	}

	want := []string{"start", "stop", "close"}
	for i, ev := range want {
		if stream.events[i] != ev {
			t.Fatalf("events = %v, want %v", stream.events, want)
		}
	}
}

func TestSessionSingleHandOff(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{1, 2, 3})

	if got, err := s.Stop(); err != nil || len(got) != 3 {
		t.Fatalf("first Stop() = %v, %v", got, err)
	}
	if got, err := s.Stop(); !errors.Is(err, ErrNotRecording) || got != nil {
		t.Errorf("second Stop() = %v, %v, want nil, ErrNotRecording", got, err)
	}
}

func TestSessionSingleHandOffAfterCap(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	gate := make(chan struct{})
	stream := &fakeStream{onStop: func() {
		close(entered)
		<-gate
	}}

	s := NewSession(WithSampleRate(4), WithMaxDuration(time.Second))
	if err := s.Start(stream); err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{1, 2, 3, 4, 5})

	type stopResult struct {
		samples []float32
		err     error
	}
	first := make(chan stopResult, 1)
	go func() {
		got, err := s.Stop()
		first <- stopResult{got, err}
	}()
	<-entered

	if got, err := s.Stop(); !errors.Is(err, ErrNotRecording) || got != nil {
		t.Errorf("Stop() during stop = %v, %v, want nil, ErrNotRecording", got, err)
	}
	s.Append([]float32{6})
	close(gate)

	res := <-first
	if res.err != nil || len(res.samples) != 4 {
		t.Fatalf("first Stop() = %v, %v, want 4 samples", res.samples, res.err)
	}
	if stream.stops != 1 || stream.closes != 1 {
		t.Errorf("stream stops = %d closes = %d, want 1 and 1", stream.stops, stream.closes)
	}
}

func TestSessionStartErrors(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Start(nil); !errors.Is(err, ErrNilStream) {
		t.Errorf("Start(nil) error = %v, want ErrNilStream", err)
	}

	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(&fakeStream{}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	idle := NewSession()
	if _, err := idle.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop() before Start error = %v, want ErrNotRecording", err)
	}
}

func TestSessionStreamStartFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("no input device")
	stream := &fakeStream{startEr: boom}

	s := NewSession()
	if err := s.Start(stream); !errors.Is(err, boom) {
		t.Fatalf("Start() error = %v, want %v", err, boom)
	}
	if stream.closes != 1 {
		t.Errorf("stream closed %d times, want 1", stream.closes)
	}

	s.Append([]float32{1})
	if _, err := s.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop() error = %v, want ErrNotRecording", err)
	}
}

func TestSessionStopReportsStreamError(t *testing.T) {
	t.Parallel()

	boom := errors.New("device unplugged")
	s := NewSession()
	if err := s.Start(&fakeStream{stopErr: boom}); err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{1, 2})

	got, err := s.Stop()
	if !errors.Is(err, boom) {
		t.Errorf("Stop() error = %v, want %v", err, boom)
	}
	if len(got) != 2 {
		t.Errorf("Stop() = %v, want samples despite error", got)
	}
}

func TestSessionMaxDuration(t *testing.T) {
	t.Parallel()

	s := NewSession(WithSampleRate(10), WithMaxDuration(500*time.Millisecond))
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}

	s.Append([]float32{1, 2, 3})
	select {
	case <-s.Full():
		t.Fatal("Full() closed early")
	default:
	}

	s.Append([]float32{4, 5, 6})
	s.Append([]float32{7})

	select {
	case <-s.Full():
	default:
		t.Fatal("Full() not closed at cap")
	}
	if s.Recording() {
		t.Error("Recording() = true past cap")
	}
	if d := s.Duration(); d != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", d)
	}

	got, err := s.Stop()
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Stop() = %v, want %v", got, want)
	}
}

func TestSessionDefaultCap(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if want := 60 * DefaultSampleRate; s.maxSamples != want {
		t.Errorf("maxSamples = %d, want %d", s.maxSamples, want)
	}

	unlimited := NewSession(WithMaxDuration(0))
	if unlimited.maxSamples != 0 {
		t.Errorf("maxSamples = %d, want 0", unlimited.maxSamples)
	}
}

func TestSessionConcurrentAppend(t *testing.T) {
	t.Parallel()

	s := NewSession(WithMaxDuration(0))
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				s.Append(make([]float32, 16))
			}
		})
	}
	wg.Wait()

	got, err := s.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 8*100*16 {
		t.Errorf("len = %d, want %d", len(got), 8*100*16)
	}
}

func TestSessionFinish(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}
	s.Append([]float32{0, 0.5, -0.5, 0.25})

	path := filepath.Join(t.TempDir(), DefaultOutputPath)
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.Finish(path)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if got != path {
		t.Errorf("Finish() = %q, want %q", got, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != DefaultSampleRate || src.Channels() != 1 {
		t.Errorf("format = %d Hz x %d, want 16000 x 1", src.SampleRate(), src.Channels())
	}
	samples, err := audio.ReadAll(src, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 4 {
		t.Errorf("len = %d, want 4", len(samples))
	}
}

func TestSessionFinishEmpty(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "empty.wav")
	if _, err := s.Finish(path); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("empty recording not written: %v", err)
	}
}

func TestSessionFinishNotRecording(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if _, err := s.Finish(filepath.Join(t.TempDir(), "x.wav")); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Finish() error = %v, want ErrNotRecording", err)
	}
}

func TestSessionFullUnblocksWaiter(t *testing.T) {
	t.Parallel()

	s := NewSession(WithSampleRate(4), WithMaxDuration(time.Second))
	if err := s.Start(&fakeStream{}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		for range 10 {
			s.Append([]float32{1})
		}
	}()

	select {
	case <-s.Full():
	case <-ctx.Done():
		t.Fatal("cap never reached")
	}
	if got, _ := s.Stop(); len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}
