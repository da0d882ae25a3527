package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status                 `json:"status"`
	Running bool                   `json:"running"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogPinger
	run     RunState
}

// New creates a Service. Both arguments can be nil.
func New(catalog CatalogPinger, run RunState) *Service {
	return &Service{catalog: catalog, run: run}
}

// Check pings the catalog and reports the run state.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog != nil {
		if err := s.catalog.Ping(ctx); err != nil {
			checks["catalog"] = CheckError
		} else {
			checks["catalog"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:  status,
		Running: s.run != nil && s.run.Running(),
		Checks:  checks,
	}
}
