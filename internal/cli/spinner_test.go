package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

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

func TestSpinnerBasic(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Counting...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Counting... 4096 steps")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Counting...") {
		t.Errorf("spinner output %q should contain the message", out.String())
	}
	if !strings.Contains(out.String(), "4096 steps") {
		t.Errorf("spinner output %q should contain the updated message", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}
