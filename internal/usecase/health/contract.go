package health

import "context"

// CatalogPinger checks catalog availability.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}

// RunState reports whether a search run is in flight.
type RunState interface {
	Running() bool
}
