package health

import "context"

// BackendChecker checks search backend availability.
type BackendChecker interface {
	Health(ctx context.Context) error
}

// CachePinger checks query shape cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// RecognizerChecker checks a remote place recognizer.
type RecognizerChecker interface {
	HealthCheck(ctx context.Context) error
}
