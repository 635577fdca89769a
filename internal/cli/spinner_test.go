package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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
	var out syncBuffer
	s := newSpinner("Rasterising PNG...")
	s.out = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Rasterising PNG...") {
		t.Errorf("output = %q", out.String())
	}
	if !s.Cancelled() {
		t.Error("Stop cancels the spinner context")
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "waiting")
	s.out = &syncBuffer{}
	s.Start()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop when its context ended")
	}
	if !s.Cancelled() {
		t.Error("Cancelled should report the expired context")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("stop")
	s.out = &syncBuffer{}
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("done")
	s.StopWithError("failed")
}
