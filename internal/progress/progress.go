// Package progress bridges long-running operations to a host UI: a percentage
// widget, a console and a layer loader.
package progress

// Host is the capability a host UI hands to a run.
type Host interface {
	// SetPercentage moves the progress widget to pct in [0, 100].
	SetPercentage(pct float64)
	// SetConsoleInfo appends a line to the host console. It fails when the host UI
	// is gone; callers treat that as a no-op.
	SetConsoleInfo(line string) error
	// LoadLayer asks the host to display a result file.
	LoadLayer(path string) error
}

// Nop is a Host that discards everything, for headless use and tests.
type Nop struct{}

// SetPercentage implements Host.
func (Nop) SetPercentage(float64) {}

// SetConsoleInfo implements Host.
func (Nop) SetConsoleInfo(string) error { return nil }

// LoadLayer implements Host.
func (Nop) LoadLayer(string) error { return nil }

type multi []Host

// Multi fans every call out to hosts and returns the first console or loader error.
func Multi(hosts ...Host) Host {
	return multi(hosts)
}

func (m multi) SetPercentage(pct float64) {
	for _, h := range m {
		h.SetPercentage(pct)
	}
}

func (m multi) SetConsoleInfo(line string) error {
	var first error
	for _, h := range m {
		if err := h.SetConsoleInfo(line); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multi) LoadLayer(path string) error {
	var first error
	for _, h := range m {
		if err := h.LoadLayer(path); err != nil && first == nil {
			first = err
		}
	}
	return first
}
