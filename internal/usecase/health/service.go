package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates searches still work with reduced quality or no cache.
	Degraded Status = "degraded"
	// Unhealthy indicates searches cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentBackend    = "backend"
	ComponentCache      = "cache"
	ComponentRecognizer = "recognizer"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend    BackendChecker
	cache      CachePinger
	recognizer RecognizerChecker
}

// New creates a Service. cache can be nil.
func New(backend BackendChecker, cache CachePinger) *Service {
	return &Service{backend: backend, cache: cache}
}

// WithRecognizer adds a remote recognizer check.
func (s *Service) WithRecognizer(r RecognizerChecker) *Service {
	s.recognizer = r
	return s
}

// Check runs health checks against all components. A failed backend makes
// the service unhealthy; a failed cache or recognizer only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentBackend: result(s.backend.Health(ctx)),
	}
	if s.cache != nil {
		checks[ComponentCache] = result(s.cache.Ping(ctx))
	}
	if s.recognizer != nil {
		checks[ComponentRecognizer] = result(s.recognizer.HealthCheck(ctx))
	}

	status := Healthy
	for name, v := range checks {
		if v != CheckError {
			continue
		}
		if name == ComponentBackend {
			status = Unhealthy
			break
		}
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
