package domain

import "context"

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	// Check returns the status of each dependency and whether all are up.
	Check(ctx context.Context) (map[string]string, bool)
}
