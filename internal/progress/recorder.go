package progress

import "sync"

const defaultTailSize = 200

// Snapshot is the observable state of a Recorder.
type Snapshot struct {
	Percentage float64  `json:"percentage"`
	Lines      []string `json:"lines"`
	Layers     []string `json:"layers"`
}

// Recorder is a Host that remembers the last percentage, a bounded tail of console
// lines and the loaded layers. It is safe for concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	pct      float64
	lines    []string
	layers   []string
	tailSize int
}

// NewRecorder creates a recorder keeping at most tailSize console lines.
// A non-positive tailSize selects the default.
func NewRecorder(tailSize int) *Recorder {
	if tailSize <= 0 {
		tailSize = defaultTailSize
	}
	return &Recorder{tailSize: tailSize}
}

// SetPercentage implements Host.
func (r *Recorder) SetPercentage(pct float64) {
	r.mu.Lock()
	r.pct = pct
	r.mu.Unlock()
}

// SetConsoleInfo implements Host.
func (r *Recorder) SetConsoleInfo(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	if over := len(r.lines) - r.tailSize; over > 0 {
		r.lines = append(r.lines[:0], r.lines[over:]...)
	}
	return nil
}

// LoadLayer implements Host.
func (r *Recorder) LoadLayer(path string) error {
	r.mu.Lock()
	r.layers = append(r.layers, path)
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the recorded state.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Percentage: r.pct,
		Lines:      append([]string(nil), r.lines...),
		Layers:     append([]string(nil), r.layers...),
	}
}
