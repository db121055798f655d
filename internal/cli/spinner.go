package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner shows an animated status line on a terminal until stopped or
// until its context is canceled.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string

	mu      sync.Mutex
	message string
	once    sync.Once
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(s.frames[i%len(s.frames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(message) < len(s.message) {
		fmt.Fprintf(s.w, "\r%s", strings.Repeat(" ", len(s.message)+4))
	}
	s.message = message
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.cancel()
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Cancelled reports whether the spinner's context was canceled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
