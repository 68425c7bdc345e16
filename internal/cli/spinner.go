package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner shows progress on stderr while a render runs. It stops on Stop or
// when its context is cancelled.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  spinner.Spinner
	once    sync.Once
	mu      sync.Mutex
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  spinner.Dot,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.frames.FPS)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames.Frames[i%len(s.frames.Frames)]
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and clears the line. It is safe to call more than
// once, but only after Start.
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
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
		return s.ctx.Err() != nil
	}
}
