package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsFrames(t *testing.T) {
	var w syncBuffer
	s := newSpinner(context.Background(), &w, "Rendering...")
	s.interval = time.Millisecond
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for s.Ticks() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()

	if s.Ticks() < 3 {
		t.Fatalf("spinner drew %d frames, want at least 3", s.Ticks())
	}
	if !strings.Contains(w.String(), "Rendering...") {
		t.Errorf("output should contain the message, got %q", w.String())
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var w syncBuffer
	s := newSpinner(ctx, &w, "Waiting...")
	s.Start()

	cancel()
	select {
	case <-s.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var w syncBuffer
	s := newSpinner(context.Background(), &w, "Testing...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var w syncBuffer
	s := newSpinner(context.Background(), &w, "Working...")
	s.Start()
	s.StopWithSuccess("Done")

	s = newSpinner(context.Background(), &w, "Working...")
	s.Start()
	s.StopWithError("Failed")

	out := w.String()
	for _, want := range []string{"Done", "Failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}
