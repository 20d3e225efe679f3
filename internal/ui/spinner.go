package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress shows "message (n/total)" on stderr while long operations such as
// indexing run. It stays silent when stderr is not a terminal.
type Progress struct {
	out     io.Writer
	enabled bool
	message string
	total   int

	mu      sync.Mutex
	current int
	frame   int
}

// NewProgress creates a progress indicator writing to stderr.
func NewProgress(message string, total int) *Progress {
	return &Progress{
		out:     os.Stderr,
		enabled: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		message: message,
		total:   total,
	}
}

// Increment advances the progress by one and redraws the line.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if !p.enabled {
		return
	}
	frame := spinnerFrames[p.frame%len(spinnerFrames)]
	p.frame++
	fmt.Fprintf(p.out, "\r%s %s %s", Bold.Render(frame), p.message,
		Muted.Render(fmt.Sprintf("(%d/%d)", p.current, p.total)))
}

// Current returns how many steps have completed.
func (p *Progress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Done clears the progress line.
func (p *Progress) Done() {
	if p.enabled {
		fmt.Fprint(p.out, "\r\033[K")
	}
}

// Spinner animates a message on stderr until stopped.
type Spinner struct {
	message string
	done    chan struct{}
	wg      sync.WaitGroup
	enabled bool
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
		enabled: isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", Bold.Render(spinnerFrames[i%len(spinnerFrames)]), s.message)
			}
		}
	}()
}

// Stop stops the spinner.
func (s *Spinner) Stop() {
	if !s.enabled {
		return
	}
	close(s.done)
	s.wg.Wait()
}
