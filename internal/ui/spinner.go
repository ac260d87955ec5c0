package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Spinner animates a message on a terminal while a long task runs, such as
// indexing a large vault. On anything but a terminal it prints nothing.
type Spinner struct {
	out     io.Writer
	message string
	frames  []string
	active  bool
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner that draws on f.
func NewSpinner(f *os.File, message string) *Spinner {
	return &Spinner{
		out:     f,
		message: message,
		frames:  defaultFrames,
		active:  IsTerminal(f),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.active {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				s.current++
				s.mu.Unlock()
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(frame), s.message)
			}
		}
	}()
}

// Stop stops the spinner and clears its line. It is safe to call once.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	close(s.done)
	s.wg.Wait()
}
