package progress

// Bar tracks a value against a total and pushes the percentage to a host widget.
type Bar struct {
	host  Host
	value float64
	total float64
}

// NewBar creates a bar and reports its initial percentage.
func NewBar(host Host, total, initial float64) *Bar {
	if host == nil {
		host = Nop{}
	}
	b := &Bar{host: host, value: initial, total: total}
	b.host.SetPercentage(b.Percent())
	return b
}

// Value returns the current value.
func (b *Bar) Value() float64 { return b.value }

// Total returns the total.
func (b *Bar) Total() float64 { return b.total }

// Percent returns value/total*100, or 0 for a non-positive total.
func (b *Bar) Percent() float64 {
	if b.total <= 0 {
		return 0
	}
	return b.value / b.total * 100
}

// Update advances the bar by increment and reports the new percentage.
func (b *Bar) Update(increment float64) {
	b.value += increment
	b.host.SetPercentage(b.Percent())
}

// Close releases the bar. The host widget keeps its last value.
func (b *Bar) Close() {}

// Factory creates bars bound to a host. The zero Factory uses Nop.
type Factory struct {
	Host Host
}

// New creates a bar for total units starting at initial.
func (f Factory) New(total, initial float64) *Bar {
	return NewBar(f.Host, total, initial)
}
