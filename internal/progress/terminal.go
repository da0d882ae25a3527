package progress

import (
	"fmt"
	"io"
	"math"
	"sync"
)

// Terminal is a Host writing whole-percent changes to w. Console lines are dropped
// because the process logger already prints them; layers are announced.
type Terminal struct {
	mu   sync.Mutex
	w    io.Writer
	last int
}

// NewTerminal creates a terminal host writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, last: -1}
}

// SetPercentage implements Host.
func (t *Terminal) SetPercentage(pct float64) {
	p := int(math.Floor(pct))
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == t.last {
		return
	}
	t.last = p
	_, _ = fmt.Fprintf(t.w, "\r%3d%%", p)
	if p >= 100 {
		_, _ = fmt.Fprintln(t.w)
	}
}

// SetConsoleInfo implements Host.
func (t *Terminal) SetConsoleInfo(string) error { return nil }

// LoadLayer implements Host.
func (t *Terminal) LoadLayer(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "result layer: %s\n", path)
	if err != nil {
		return fmt.Errorf("announce layer: %w", err)
	}
	return nil
}
